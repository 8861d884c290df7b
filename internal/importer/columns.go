package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	colCustomerID     = "customer_id"
	colDate           = "date"
	colGGR            = "ggr"
	colChargeback     = "chargeback"
	colDeposit        = "deposit"
	colWithdrawal     = "withdrawal"
	colClientesID     = "clientes_id"
	colAfiliadosID    = "afiliados_id"
	colValue          = "value"
	colMethod         = "method"
	colStatus         = "status"
	colClassification = "classification"
	colLevel          = "level"
)

type columnSpec struct {
	name     string
	aliases  []string
	required bool
}

var transactionColumns = []columnSpec{
	{colCustomerID, []string{"customer_id", "customerid", "cliente", "cliente_id", "clientes_id", "customer"}, true},
	{colDate, []string{"date", "data", "dia"}, true},
	{colGGR, []string{"ggr"}, false},
	{colChargeback, []string{"chargeback", "chargebacks", "estorno"}, false},
	{colDeposit, []string{"deposit", "deposits", "deposito", "depositos"}, false},
	{colWithdrawal, []string{"withdrawal", "withdrawals", "saque", "saques"}, false},
}

var paymentColumns = []columnSpec{
	{colClientesID, []string{"clientes_id", "cliente_id", "cliente", "customer_id"}, false},
	{colAfiliadosID, []string{"afiliados_id", "afiliado_id", "afiliado", "affiliate_id", "affiliate"}, true},
	{colDate, []string{"date", "data"}, true},
	{colValue, []string{"value", "valor", "amount"}, true},
	{colMethod, []string{"method", "metodo", "tipo", "type"}, true},
	{colStatus, []string{"status", "situacao"}, true},
	{colClassification, []string{"classification", "classificacao", "tier"}, false},
	{colLevel, []string{"level", "nivel"}, false},
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeader lower-cases, strips accents and joins words with underscores,
// so "Depósito" and "deposito" match, as do "Afiliados ID" and "afiliados_id".
func normalizeHeader(h string) string {
	h, _, _ = transform.String(accentStripper, strings.TrimSpace(h))
	h = strings.ToLower(h)
	return strings.Join(strings.FieldsFunc(h, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '.'
	}), "_")
}

// columnIndex maps canonical column names to their position in header.
// Missing required columns are returned by name.
func columnIndex(header []string, specs []columnSpec) (map[string]int, []string) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := positions[key]; !dup && key != "" {
			positions[key] = i
		}
	}

	index := make(map[string]int, len(specs))
	var missing []string
	for _, spec := range specs {
		found := false
		for _, alias := range spec.aliases {
			if i, ok := positions[alias]; ok {
				index[spec.name] = i
				found = true
				break
			}
		}
		if !found && spec.required {
			missing = append(missing, spec.name)
		}
	}
	return index, missing
}
