package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-pos/internal/domain/entity"
)

// StockRepository puerto de la vista materializada de stock.
//
// Protocolo de bloqueo: toda operación que vaya a cambiar stock disponible
// debe, dentro de una transacción, llamar LockBalances con el conjunto
// COMPLETO de productos afectados ANTES de leer saldos para decidir; luego
// escribir vía ApplyDelta dentro de la misma transacción. Los locks se
// liberan en el commit/rollback.
type StockRepository interface {
	Get(tenantID, productID string) (*entity.StockBalance, error)
	List(tenantID string) ([]*entity.StockBalance, error)
	// LockBalances toma locks exclusivos de fila sobre los saldos de los
	// productos indicados, filtrando por tenant vía join con products: un ID
	// de otro tenant no matchea nada (no filtra información ni bloquea filas
	// ajenas). El orden de adquisición es el de los IDs ordenados, para
	// evitar deadlocks entre transacciones con conjuntos solapados.
	LockBalances(tenantID string, productIDs []string) (map[string]*entity.StockBalance, error)
	// ApplyDelta suma delta (firmado) al saldo. Solo debe invocarse con el
	// lock tomado y en la misma unidad de trabajo que inserta la línea de
	// movimiento correspondiente.
	ApplyDelta(tenantID, productID string, delta decimal.Decimal) error
}
