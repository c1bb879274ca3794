package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos y estados de un cheque (instrumento negociable).
const (
	ChequeTypeReceived = "received"
	ChequeTypeIssued   = "issued"

	ChequeStatusNew   = "new"
	ChequeStatusSpent = "spent"
)

// ChequeMetadata marca de gasto: un cheque recibido puede ser gastado por un
// único registro a la vez (SpentOutSourceRecordID identifica al gastador).
type ChequeMetadata struct {
	SpentOut               bool
	SpentOutSourceRecordID string
}

// Cheque instrumento negociable asociado a filas de pago.
type Cheque struct {
	ID            string
	Type          string
	Status        string
	Amount        decimal.Decimal
	PartyID       string
	BankAccountID string
	DueDate       string
	Metadata      ChequeMetadata
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SpendableBy indica si el cheque puede ser gastado por el registro dado:
// recibido, en estado nuevo, o ya gastado por ese mismo registro.
func (c *Cheque) SpendableBy(recordID string) bool {
	if c.Type != ChequeTypeReceived {
		return false
	}
	if c.Metadata.SpentOut {
		return c.Metadata.SpentOutSourceRecordID == recordID
	}
	return c.Status == ChequeStatusNew
}
