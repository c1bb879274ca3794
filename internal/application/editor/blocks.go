package editor

import (
	"github.com/jhoicas/Conciliador-api/internal/domain/entity"
	"github.com/jhoicas/Conciliador-api/internal/domain/rowcalc"
)

// DefaultBlocks bloques editables que expone la aplicación: movimientos de
// stock, ítems de factura y pagos. Cada bloque declara sus columnas, su modo
// de cálculo y cómo se aplican las selecciones de referencia.
func DefaultBlocks() []BlockConfig {
	return []BlockConfig{
		{
			ModuleID:   "inventory",
			BlockID:    "stock_movements",
			Collection: "stock_movement_rows",
			Kind:       rowcalc.TableStockMovement,
			Specs: []entity.FieldSpec{
				{Key: entity.FieldVoucherType, Label: "Comprobante", Type: entity.FieldTypeSelect, Default: entity.VoucherIncoming, Filterable: true, Category: "voucher_types"},
				{Key: entity.FieldSource, Label: "Origen", Type: entity.FieldTypeSelect, Default: entity.SourceManual, Filterable: true, Category: "movement_sources"},
				{Key: entity.FieldProductID, Label: "Producto", Type: entity.FieldTypeRelation, Category: "products"},
				{Key: entity.FieldQuantity, Label: "Cantidad", Type: entity.FieldTypeNumber, Default: "0"},
				{Key: entity.FieldSubQuantity, Label: "Sub-cantidad", Type: entity.FieldTypeNumber, Default: "0"},
				{Key: entity.FieldMainUnit, Label: "Unidad", Type: entity.FieldTypeSelect, Category: "units"},
				{Key: entity.FieldSubUnit, Label: "Sub-unidad", Type: entity.FieldTypeSelect, Category: "units"},
				{Key: entity.FieldUnitFactor, Label: "Factor", Type: entity.FieldTypeNumber},
				{Key: entity.FieldFromShelf, Label: "Estante origen", Type: entity.FieldTypeSelect, Category: "shelves"},
				{Key: entity.FieldToShelf, Label: "Estante destino", Type: entity.FieldTypeSelect, Category: "shelves"},
			},
			Bind: rowcalc.BindOptions{
				Fields: []string{
					entity.FieldProductID, entity.FieldMainUnit,
					entity.FieldSubUnit, entity.FieldUnitFactor,
				},
				FieldMap: map[string]string{
					entity.FieldProductID: "id",
					entity.FieldMainUnit:  "main_unit",
					entity.FieldSubUnit:   "sub_unit",
				},
				Editable: []string{entity.FieldQuantity},
			},
		},
		{
			ModuleID:   "billing",
			BlockID:    "invoice_items",
			Collection: "invoice_item_rows",
			Kind:       rowcalc.TableInvoiceItem,
			Mode:       rowcalc.CalcModeUnitPrice,
			Specs: []entity.FieldSpec{
				{Key: entity.FieldProductID, Label: "Producto", Type: entity.FieldTypeRelation, Filterable: true, Category: "products"},
				{Key: entity.FieldHasDimensions, Label: "Dimensionado", Type: entity.FieldTypeStatus, Default: ""},
				{Key: entity.FieldLength, Label: "Largo", Type: entity.FieldTypeNumber},
				{Key: entity.FieldWidth, Label: "Ancho", Type: entity.FieldTypeNumber},
				{Key: entity.FieldQuantity, Label: "Cantidad", Type: entity.FieldTypeNumber, Default: "1"},
				{Key: entity.FieldMainUnit, Label: "Unidad", Type: entity.FieldTypeSelect, Category: "units"},
				{Key: entity.FieldSubUnit, Label: "Sub-unidad", Type: entity.FieldTypeSelect, Category: "units"},
				{Key: entity.FieldSubQuantity, Label: "Sub-cantidad", Type: entity.FieldTypeNumber, Default: "0"},
				{Key: entity.FieldUnitFactor, Label: "Factor", Type: entity.FieldTypeNumber},
				{Key: entity.FieldUnitPrice, Label: "Precio unitario", Type: entity.FieldTypePrice, Default: "0"},
				{Key: entity.FieldDiscount, Label: "Descuento", Type: entity.FieldTypePercentOrAmount},
				{Key: entity.FieldTax, Label: "Impuesto", Type: entity.FieldTypePercentOrAmount},
				{Key: entity.FieldTotalPrice, Label: "Total", Type: entity.FieldTypePrice, Default: "0"},
			},
			Bind: rowcalc.BindOptions{
				Fields: []string{
					entity.FieldProductID, entity.FieldUnitPrice, entity.FieldMainUnit,
					entity.FieldSubUnit, entity.FieldUnitFactor, entity.FieldTax,
				},
				FieldMap: map[string]string{
					entity.FieldProductID: "id",
					entity.FieldUnitPrice: "price",
					entity.FieldTax:       "tax_rate",
				},
				Editable: []string{entity.FieldQuantity, entity.FieldDiscount},
			},
		},
		{
			ModuleID:        "treasury",
			BlockID:         "payments",
			Collection:      "payment_rows",
			Kind:            rowcalc.TablePayment,
			ChequeDirection: entity.ChequeTypeIssued,
			Specs: []entity.FieldSpec{
				{Key: entity.FieldPaymentType, Label: "Tipo de pago", Type: entity.FieldTypeSelect, Default: "cash", Filterable: true, Category: "payment_types"},
				{Key: entity.FieldAmount, Label: "Monto", Type: entity.FieldTypePrice, Default: "0"},
				{Key: entity.FieldPartyID, Label: "Tercero", Type: entity.FieldTypeRelation, Filterable: true, Category: "parties"},
				{Key: entity.FieldBankAccountID, Label: "Cuenta bancaria", Type: entity.FieldTypeRelation, Category: "bank_accounts"},
				{Key: entity.FieldDueDate, Label: "Vencimiento", Type: entity.FieldTypeDate,
					ReadonlyWhen: &entity.FieldCondition{Field: entity.FieldPaymentType, Value: "cash"}},
				{Key: entity.FieldChequeID, Label: "Cheque", Type: entity.FieldTypeRelation, Category: "cheques"},
				{Key: entity.FieldChequeOwned, Label: "", Type: entity.FieldTypeStatus},
			},
			Bind: rowcalc.BindOptions{
				Fields: []string{entity.FieldPartyID},
				FieldMap: map[string]string{
					entity.FieldPartyID: "id",
				},
				Editable: []string{entity.FieldAmount},
			},
		},
	}
}
