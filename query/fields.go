// Package query implements the dashboard's read queries over the loaded dataset:
// resolution of logical field names to physical columns, the shared filter engine,
// and every aggregation operation.
package query

import "hermannm.dev/orderstats/dataset"

// LogicalField is a stable semantic name for a business concept (e.g. delivery
// duration), independent of how the column is physically named in the uploaded
// spreadsheet.
type LogicalField string

const (
	FieldOrderID           LogicalField = "order_id"
	FieldOrderDateTime     LogicalField = "order_datetime"
	FieldOrderDate         LogicalField = "order_date"
	FieldPlatform          LogicalField = "platform"
	FieldOrderMode         LogicalField = "order_mode"
	FieldOrderClass        LogicalField = "classe_pedido"
	FieldStatus            LogicalField = "status"
	FieldMacroBairro       LogicalField = "macro_bairro"
	FieldTotalBRL          LogicalField = "total_brl"
	FieldNumItems          LogicalField = "num_itens"
	FieldPrepMinutes       LogicalField = "tempo_preparo_minutos"
	FieldDeliveryMinutes   LogicalField = "actual_delivery_minutes"
	FieldETAMinutes        LogicalField = "eta_minutes_quote"
	FieldDistanceKM        LogicalField = "distance_km"
	FieldCommissionPct     LogicalField = "platform_commision_pct"
	FieldSatisfactionScore LogicalField = "satisfacao_nivel"
	FieldClientID          LogicalField = "cliente_id"
)

// columnAliases maps each logical field to its known physical column names, in
// decreasing order of preference. The first alias present in the dataset wins.
var columnAliases = map[LogicalField][]string{
	FieldOrderID:           {"order_id", "id_pedido", "pedido_id", "id"},
	FieldOrderDateTime:     {"order_datetime", "data_pedido", "created_at", "order_date"},
	FieldOrderDate:         {"order_date", "data", "dt", "date"},
	FieldPlatform:          {"platform", "plataforma"},
	FieldOrderMode:         {"order_mode", "modo_pedido", "channel"},
	FieldOrderClass:        {"classe_pedido", "order_class", "classe", "class"},
	FieldStatus:            {"status", "order_status"},
	FieldMacroBairro:       {"macro_bairro", "macro_bairros", "macro_bairro_nome"},
	FieldTotalBRL:          {"total_brl", "valor_total", "total"},
	FieldNumItems:          {"num_itens", "qtd_itens", "items_count"},
	FieldPrepMinutes:       {"tempo_preparo_minutos", "prep_minutes", "preparo_min"},
	FieldDeliveryMinutes:   {"actual_delivery_minutes", "delivery_minutes", "tempo_entrega_min"},
	FieldETAMinutes:        {"eta_minutes_quote", "eta_minutos", "eta_min"},
	FieldDistanceKM:        {"distance_km", "distancia_km", "km"},
	FieldCommissionPct:     {"platform_commision_pct", "platform_commission_pct", "taxa_plataforma"},
	FieldSatisfactionScore: {"satisfacao_nivel", "satisfacao", "satisfaction", "nota"},
	FieldClientID:          {"cliente_id", "customer_id", "id_cliente"},
}

// ResolveColumn maps a logical field to a physical column of the dataset. An
// explicit override that names an existing column always wins; otherwise the field's
// aliases are tried in order. Returns false when neither matches.
func ResolveColumn(
	data *dataset.Dataset,
	override string,
	field LogicalField,
) (columnName string, ok bool) {
	if override != "" && data.HasColumn(override) {
		return override, true
	}

	for _, alias := range columnAliases[field] {
		if data.HasColumn(alias) {
			return alias, true
		}
	}

	return "", false
}

// resolveDateColumn tries the order_datetime field before falling back to plain
// order_date aliases, matching the priority every date-indexed operation uses.
func resolveDateColumn(data *dataset.Dataset, override string) (string, bool) {
	if columnName, ok := ResolveColumn(data, override, FieldOrderDateTime); ok {
		return columnName, true
	}
	return ResolveColumn(data, override, FieldOrderDate)
}
