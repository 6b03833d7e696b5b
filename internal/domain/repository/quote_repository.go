package repository

import "github.com/tu-usuario/retail-pos/internal/domain/entity"

// QuoteRepository puerto de cotizaciones.
type QuoteRepository interface {
	Create(quote *entity.Quote) error
	CreateLine(line *entity.QuoteLine) error
	GetByID(id string) (*entity.Quote, error)
	// GetForUpdate bloquea la fila de la cotización durante la conversión,
	// para que dos conversiones simultáneas se serialicen.
	GetForUpdate(id string) (*entity.Quote, error)
	ListLines(quoteID string) ([]*entity.QuoteLine, error)
	List(tenantID string) ([]*entity.Quote, error)
	// UpdateStatus persiste transiciones de estado (SENT, CANCELED).
	UpdateStatus(quote *entity.Quote) error
	// MarkAccepted fija status=ACCEPTED y sale_id, transición terminal.
	MarkAccepted(quoteID, saleID string) error
}
