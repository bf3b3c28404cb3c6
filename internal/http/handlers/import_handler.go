package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/log"
	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/services"
)

type ImportHandler struct {
	Importer *services.ImportService
}

// POST /sales/import — multipart upload. Row failures land in the summary;
// the call itself only fails for a missing/unreadable file.
func (h *ImportHandler) Upload(c *fiber.Ctx) error {
	p := principal(c)

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "se requiere el archivo a importar"})
	}
	f, err := fh.Open()
	if err != nil {
		applog.Error(c, "sales.import.open", err, map[string]any{"filename": fh.Filename})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no se pudo leer el archivo"})
	}
	defer f.Close()

	result, err := h.Importer.ImportRows(*p, fh.Filename, f)
	if err != nil {
		applog.Error(c, "sales.import.fail", err, map[string]any{"filename": fh.Filename})
		return fail(c, err)
	}

	applog.Audit(c, "sales.import", map[string]any{
		"filename": fh.Filename, "success": result.Success, "errors": len(result.Errors),
	})
	return c.JSON(result)
}
