package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	texttpl "text/template"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

const (
	TemplateActivityCheck = "activity_check"
	TemplateContactAlert  = "contact_alert"
	TemplateRecovery      = "recovery"
	TemplateContactVerify = "contact_verify"
)

// Templates carga los templates embebidos, html y texto plano por nombre.
type Templates struct {
	html map[string]*template.Template
	text map[string]*texttpl.Template
}

func LoadTemplates() (*Templates, error) {
	names := []string{
		TemplateActivityCheck,
		TemplateContactAlert,
		TemplateRecovery,
		TemplateContactVerify,
	}

	t := &Templates{
		html: make(map[string]*template.Template, len(names)),
		text: make(map[string]*texttpl.Template, len(names)),
	}
	for _, name := range names {
		hb, err := templateFS.ReadFile("templates/" + name + ".html")
		if err != nil {
			return nil, fmt.Errorf("email: read %s.html: %w", name, err)
		}
		tb, err := templateFS.ReadFile("templates/" + name + ".txt")
		if err != nil {
			return nil, fmt.Errorf("email: read %s.txt: %w", name, err)
		}

		ht, err := template.New(name + "_html").Parse(string(hb))
		if err != nil {
			return nil, fmt.Errorf("email: parse %s.html: %w", name, err)
		}
		tt, err := texttpl.New(name + "_txt").Parse(string(tb))
		if err != nil {
			return nil, fmt.Errorf("email: parse %s.txt: %w", name, err)
		}
		t.html[name] = ht
		t.text[name] = tt
	}
	return t, nil
}

// Render ejecuta el par html/text del template con las vars dadas.
func (t *Templates) Render(name string, vars any) (htmlBody, textBody string, err error) {
	ht, ok := t.html[name]
	if !ok {
		return "", "", fmt.Errorf("email: unknown template %q", name)
	}
	tt := t.text[name]

	var hbuf, tbuf bytes.Buffer
	if err := ht.Execute(&hbuf, vars); err != nil {
		return "", "", fmt.Errorf("email: render %s html: %w", name, err)
	}
	if err := tt.Execute(&tbuf, vars); err != nil {
		return "", "", fmt.Errorf("email: render %s text: %w", name, err)
	}
	return hbuf.String(), tbuf.String(), nil
}
