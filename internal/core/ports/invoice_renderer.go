package ports

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
)

// ErrDocumentRenderingFailed indicates the rendering service could not
// produce the document. Transient; the caller may retry.
var ErrDocumentRenderingFailed = errors.New("document rendering failed")

// InvoiceRenderer produces downloadable documents from an order snapshot.
// Pure read side: implementations never mutate order or shipment state.
type InvoiceRenderer interface {
	// RenderInvoice renders the order (including shipment details, when
	// present) into a binary invoice document.
	RenderInvoice(ctx context.Context, aggregate *order.Order) ([]byte, error)
}
