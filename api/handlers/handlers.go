package handlers

import (
	"github.com/feichai0017/document-printer/internal/service/document"
	"github.com/feichai0017/document-printer/internal/service/spool"
	"github.com/feichai0017/document-printer/pkg/logger"
)

type Handlers struct {
	Document *DocumentHandler
	Printer  *PrinterHandler
}

func NewHandlers(
	documentService document.DocumentParser,
	spoolService spool.PrintSpooler,
	logger logger.Logger,
) *Handlers {
	return &Handlers{
		Document: NewDocumentHandler(documentService, logger),
		Printer:  NewPrinterHandler(spoolService, logger),
	}
}
