package core

import (
	"net/mail"
	"strings"
	"testing"
)

type failLogger struct{ t *testing.T }

func (l failLogger) Enable(bool)                           {}
func (l failLogger) Debug(string, ...interface{})          {}
func (l failLogger) Info(string, ...interface{})           {}
func (l failLogger) Warn(string, ...interface{})           {}
func (l failLogger) Error(msg string, args ...interface{}) { l.t.Errorf("%s: %v", msg, args) }
func (l failLogger) Fatal(msg string, args ...interface{}) { l.t.Fatalf("%s: %v", msg, args) }

// every bundled template must parse against its embedded _base layout
func TestParseEmailTemplates(t *testing.T) {
	if err := ParseEmailTemplates(failLogger{t}); err != nil {
		t.Fatalf("ParseEmailTemplates(): %v", err)
	}
	for _, name := range []string{"new-lead", "password-reset", "welcome"} {
		entry, ok := templates[name]
		if !ok {
			t.Errorf("template %q not loaded", name)
			continue
		}
		for _, ext := range []string{".txt", ".gohtml"} {
			if entry[ext] == nil {
				t.Errorf("template %q is missing its %s variant", name, ext)
			}
		}
	}
}

func TestEmailMessage_Render(t *testing.T) {
	msg := EmailMessage{
		To:           []mail.Address{{Name: "Ventas", Address: "ventas@test.pe"}},
		Subject:      "Nuevo contacto: Pedro Castillo",
		TemplateName: "new-lead",
		TemplateData: struct {
			Name, Email, Phone, Area, Source, Message string
		}{
			Name:   "Pedro Castillo",
			Email:  "pedro@test.pe",
			Phone:  "+51987654321",
			Area:   "mineria",
			Source: "landing",
		},
	}
	if err := msg.Render(); err != nil {
		t.Fatalf("Render(): %v", err)
	}
	if !msg.HasContent() {
		t.Fatal("Render() produced no content")
	}
	for _, want := range []string{"Pedro Castillo", "pedro@test.pe", "mineria"} {
		if !strings.Contains(msg.TextContent, want) {
			t.Errorf("TextContent missing %q:\n%s", want, msg.TextContent)
		}
	}
	if msg.HTMLContent == "" {
		t.Error("Render() produced no HTML content")
	}
}

func TestEmailMessage_RenderPlainBody(t *testing.T) {
	msg := EmailMessage{BodyStr: "hola"}
	if err := msg.Render(); err != nil {
		t.Fatalf("Render(): %v", err)
	}
	if msg.TextContent != "hola" {
		t.Errorf("TextContent = %q", msg.TextContent)
	}
	if msg.HTMLContent != "" {
		t.Errorf("HTMLContent = %q; want empty", msg.HTMLContent)
	}
}
