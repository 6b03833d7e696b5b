// Package pdf implementa la generación del recibo (tirilla) de una venta
// confirmada.
//
// Layout de la página:
//
//	┌──────────────────────────────────────────────┐
//	│  HEADER: Comercio + NIT  │  N° Venta + Fecha │
//	│  ──────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal  │
//	│  ──────────────────────────────────────────  │
//	│  TOTAL                                       │
//	│  PAGOS: método, monto (efectivo: recibido y  │
//	│  cambio)                                     │
//	└──────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tu-usuario/retail-pos/internal/application/sales"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ sales.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa sales.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateSaleReceipt genera el recibo y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateSaleReceipt(
	_ context.Context,
	tenant *entity.Tenant,
	sale *entity.Sale,
	lines []*entity.SaleLine,
	payments []*entity.SalePayment,
	productNames map[string]string,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de venta", true).
		WithAuthor(tenant.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(tenant, sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, l := range lines {
		m.AddRows(lineRow(l, productNames))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(sale))
	for _, p := range payments {
		m.AddRows(paymentRow(p))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: comercio + NIT (izq) y N° de venta + fecha (der).
func headerRow(tenant *entity.Tenant, sale *entity.Sale) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(tenant.Name, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+tenant.TaxID, props.Text{
				Size: 8, Top: 8, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RECIBO DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(sale.ID, props.Text{
				Size: 6, Align: align.Right, Top: 6, Color: colorGray,
			}),
			text.New(sale.Date.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 10,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	return row.New(7).Add(
		col.New(2).Add(text.New("Cant", props.Text{Style: fontstyle.Bold, Size: 8})),
		col.New(5).Add(text.New("Producto", props.Text{Style: fontstyle.Bold, Size: 8})),
		col.New(2).Add(text.New("P.Unit", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right})),
		col.New(3).Add(text.New("Subtotal", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right})),
	)
}

func lineRow(l *entity.SaleLine, productNames map[string]string) core.Row {
	name := productNames[l.ProductID]
	if name == "" {
		name = l.ProductID
	}
	return row.New(6).Add(
		col.New(2).Add(text.New(l.Quantity.String(), props.Text{Size: 8})),
		col.New(5).Add(text.New(name, props.Text{Size: 8})),
		col.New(2).Add(text.New(l.UnitPrice.StringFixed(2), props.Text{Size: 8, Align: align.Right})),
		col.New(3).Add(text.New(l.LineTotal.StringFixed(2), props.Text{Size: 8, Align: align.Right})),
	)
}

func totalRow(sale *entity.Sale) core.Row {
	return row.New(8).Add(
		col.New(9).Add(text.New("TOTAL", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary,
		})),
		col.New(3).Add(text.New(sale.Total.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
		})),
	)
}

func paymentRow(p *entity.SalePayment) core.Row {
	label := string(p.Method)
	if p.Method == entity.PaymentCash {
		label = fmt.Sprintf("%s (recibido %s, cambio %s)",
			p.Method, p.CashReceived.StringFixed(2), p.CashChange.StringFixed(2))
	}
	return row.New(5).Add(
		col.New(9).Add(text.New(label, props.Text{Size: 8, Align: align.Right, Color: colorGray})),
		col.New(3).Add(text.New(p.Amount.StringFixed(2), props.Text{Size: 8, Align: align.Right})),
	)
}
