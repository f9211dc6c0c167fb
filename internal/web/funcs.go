package web

import (
	"html/template"
	"strings"
	"time"

	"inventory/internal/domain/model"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Funcs はテンプレートで使う関数
func Funcs() template.FuncMap {
	return template.FuncMap{
		"currency":   Currency,
		"number":     Number,
		"datetime":   Datetime,
		"selected":   Selected,
		"kindLabel":  KindLabel,
		"kindBadge":  KindBadge,
		"deltaSign":  DeltaSign,
		"optionalID": OptionalID,
	}
}

// Currency は $1,234.50 の形にする。decimal.Decimal / *decimal.Decimal を受ける。
func Currency(v any) string {
	var d decimal.Decimal
	switch t := v.(type) {
	case decimal.Decimal:
		d = t
	case *decimal.Decimal:
		if t == nil {
			return "-"
		}
		d = *t
	default:
		return "-"
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	whole, err := decimal.NewFromString(intPart)
	if err != nil {
		return sign + "$" + fixed
	}
	return sign + "$" + printer.Sprintf("%d", whole.IntPart()) + "." + frac
}

// Number は 1,234 の形にする
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

func Datetime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

// Selected は任意参照（*int64）がidと一致するか
func Selected(ref *int64, id int64) bool {
	return ref != nil && *ref == id
}

// STOCK_IN → Stock In
func KindLabel(k model.TransactionKind) string {
	words := strings.Split(strings.ToLower(string(k)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func KindBadge(k model.TransactionKind) string {
	switch k {
	case model.KindStockIn, model.KindReturn:
		return "success"
	case model.KindStockOut:
		return "danger"
	default:
		return "warning"
	}
}

// +10 / -5
func DeltaSign(n int64) string {
	if n > 0 {
		return "+" + Number(n)
	}
	return Number(n)
}

func OptionalID(ref *int64) int64 {
	if ref == nil {
		return 0
	}
	return *ref
}
