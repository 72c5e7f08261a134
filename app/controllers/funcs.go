package controllers

import (
	"fmt"
	"html/template"
)

// formField feeds the shared "field" template of the product form.
type formField struct {
	Page  *Page
	Name  string
	Label string
	Value string
}

// Funcs are the template helpers the storefront pages use:
//
//	{{route "product.edit" "id" .ID}}
//	{{template "field" (field $ "price" .Form.Price)}}
func Funcs(url URLFunc) template.FuncMap {
	return template.FuncMap{
		"route": func(name string, kv ...interface{}) string {
			params := make(map[string]string, len(kv)/2)
			for i := 0; i+1 < len(kv); i += 2 {
				params[fmt.Sprint(kv[i])] = fmt.Sprint(kv[i+1])
			}
			return url(name, params)
		},
		"field": func(p *Page, name, value string) formField {
			return formField{Page: p, Name: name, Label: "product.form." + name, Value: value}
		},
	}
}
