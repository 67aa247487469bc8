package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/application/usecase"
)

const perPageCookieTTL = 30 * 24 * time.Hour

// listQuery lee search, order_by, order_direction, page, per_page y all.
// Un per_page explícito se guarda en la cookie "<listing>_per_page" y se reutiliza cuando falta.
func listQuery(c *fiber.Ctx, listing string) dto.ListQuery {
	q := dto.ListQuery{
		Search:         strings.TrimSpace(c.Query("search")),
		OrderBy:        strings.TrimSpace(c.Query("order_by")),
		OrderDirection: strings.ToLower(strings.TrimSpace(c.Query("order_direction"))),
		Page:           c.QueryInt("page", 1),
		All:            c.QueryBool("all", false),
	}
	cookie := listing + "_per_page"
	if raw := c.Query("per_page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			if n > dto.MaxPerPage {
				n = dto.MaxPerPage
			}
			q.PerPage = n
			c.Cookie(&fiber.Cookie{
				Name:     cookie,
				Value:    strconv.Itoa(n),
				Path:     "/",
				Expires:  time.Now().Add(perPageCookieTTL),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
	} else if n, err := strconv.Atoi(c.Cookies(cookie)); err == nil && n > 0 {
		q.PerPage = n
	}
	return q
}

// sendFile responde con el archivo exportado como adjunto.
func sendFile(c *fiber.Ctx, f *usecase.ExportFile) error {
	c.Set(fiber.HeaderContentType, f.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+f.Filename+`"`)
	c.Set("X-Export-Rows", strconv.Itoa(f.Rows))
	return c.Send(f.Data)
}
