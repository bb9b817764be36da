package etl

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Canonical column names after header normalization.
const (
	ColVenue          = "local"
	ColResponsible    = "resp"
	ColCompany        = "empresa"
	ColContact        = "contato"
	ColPhone          = "telefone"
	ColEmail          = "email"
	ColContactDate    = "data_contato"
	ColEventDate      = "data_evento"
	ColStartTime      = "horário_início"
	ColStage          = "etapa"
	ColStatus         = "situação"
	ColKind           = "tipo"
	ColForecastGuests = "convidados_previstos"
	ColForecastKids   = "kids"
	ColPresentGuests  = "convidados_presentes"
	ColPresentKids    = "kids_presentes"
	ColPrice          = "preço"
	ColKidPrice       = "preço_kids"
	ColDeposit        = "sinal"
	ColExtraCharges   = "valor_extra"
	ColRetainForecast = "manter_total_previsto"
	ColMenu           = "cardápio"
	ColPaymentMethod  = "forma_de_pagamento"
	ColObservation    = "observação"

	ColTotalForecastGuests = "total_convidados_previsto"
	ColForecastValue       = "valor_total_previsto"
	ColPresentTotalGuests  = "total_convidados_presentes"
	ColRealizedValue       = "valor_total_realizado"
	ColYear                = "ano_evento"
	ColMonth               = "mes_evento"
	ColWeekday             = "dia_semana"
	ColStageCode           = "cod_etapa"
)

// RequiredColumns must all be present in the current-period sheet.
var RequiredColumns = []string{
	ColVenue, ColPresentKids, ColDeposit, ColResponsible, ColCompany, ColMenu,
	ColForecastKids, ColKidPrice, ColPresentGuests, ColForecastGuests,
	ColPaymentMethod, ColStage, ColPhone, ColExtraCharges, ColStartTime,
	ColStatus, ColEmail, ColContactDate, ColObservation, ColEventDate,
	ColPrice, ColKind, ColContact, ColRetainForecast,
}

// LegacyRenames maps legacy sheet columns onto the canonical schema.
var LegacyRenames = map[string]string{
	"resp_evento":     ColResponsible,
	"qtde_convidados": ColForecastGuests,
}

// OutputColumns is the column order of the exported clean dataset.
var OutputColumns = []string{
	ColVenue, ColResponsible, ColCompany, ColContact, ColPhone, ColEmail,
	ColContactDate, ColEventDate, ColStartTime, ColStage, ColStatus, ColKind,
	ColMenu, ColPaymentMethod, ColObservation,
	ColForecastGuests, ColForecastKids, ColPresentGuests, ColPresentKids,
	ColPrice, ColKidPrice, ColDeposit, ColExtraCharges, ColRetainForecast,
	ColTotalForecastGuests, ColForecastValue, ColPresentTotalGuests, ColRealizedValue,
	ColStageCode, ColYear, ColMonth, ColWeekday,
}

// NormalizeHeader turns a sheet header cell into its canonical column name:
// trimmed, lower-cased, spaces replaced by underscores.
func NormalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

// DisplayColumn turns a canonical column name into its display form,
// e.g. "data_evento" -> "Data evento".
func DisplayColumn(col string) string {
	return capitalize(strings.ReplaceAll(col, "_", " "))
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
