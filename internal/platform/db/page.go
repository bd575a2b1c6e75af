package db

import (
	"strconv"
	"strings"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type Page struct {
	Limit  int
	Offset int
	Order  string // asc | desc
}

// Normalize は範囲外の値を既定値に丸める
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if strings.ToLower(p.Order) == "asc" {
		p.Order = "asc"
	} else {
		p.Order = "desc"
	}
	return p
}

func (p Page) Asc() bool { return p.Normalize().Order == "asc" }

// Window は [Offset, Offset+Limit) を n 件のスライスに収めた範囲を返す
func (p Page) Window(n int) (int, int) {
	p = p.Normalize()
	if p.Offset >= n {
		return n, n
	}
	end := p.Offset + p.Limit
	if end > n {
		end = n
	}
	return p.Offset, end
}

// ParsePage はクエリ文字列から Page を作る。読めない値は既定値にする
func ParsePage(limit, offset, order string) Page {
	return Page{
		Limit:  parseIntDefault(limit, DefaultLimit),
		Offset: parseIntDefault(offset, 0),
		Order:  order,
	}.Normalize()
}

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
