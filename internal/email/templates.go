package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// Имя единственного встроенного шаблона: письмо о срочной заявке.
const TemplateUrgentRequest = "urgent_request"

const urgentRequestTemplate = `
<html>
<body style="font-family: Arial, sans-serif;">
  <h2 style="color: #c62828;">{{.Title}}</h2>
  <p>{{.Body}}</p>
  <p>If you can help, please open the app and respond to the request.</p>
  <p style="color: #888; font-size: 12px;">You are receiving this because you are registered as a donor.</p>
</body>
</html>`

// TemplateManager реализует TemplateRenderer
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер с уже зарегистрированными
// встроенными шаблонами.
func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	if err := tm.AddTemplate(TemplateUrgentRequest, urgentRequestTemplate); err != nil {
		return nil, err
	}
	return tm, nil
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}
