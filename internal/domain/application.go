package domain

import (
	"fmt"
	"strings"
)

// Application is the landing page sign-up form.
type Application struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Telegram  string `json:"telegram"`
	City      string `json:"city"`
	Weight    string `json:"weight"`
	Height    string `json:"height"`
	Age       string `json:"age"`
	Plan      string `json:"plan"`
	Goal      string `json:"goal"`
}

// TelegramHandle returns the handle with a leading "@", or a dash placeholder when empty.
func (a Application) TelegramHandle() string {
	h := strings.TrimSpace(a.Telegram)
	if h == "" {
		return "—"
	}
	if strings.HasPrefix(h, "@") {
		return h
	}
	return "@" + h
}

// Text renders the application as the message sent to the admin.
func (a Application) Text() string {
	lines := []string{
		"🆕 Yangi ariza — Qayta Tug'ilish",
		"",
		fmt.Sprintf("Ism: %s %s", a.FirstName, a.LastName),
		fmt.Sprintf("Tel: %s", a.Phone),
		fmt.Sprintf("Telegram: %s", a.TelegramHandle()),
		fmt.Sprintf("Shahar: %s", a.City),
		fmt.Sprintf("Vazn: %s kg, Bo'y: %s sm, Yosh: %s", a.Weight, a.Height, a.Age),
		fmt.Sprintf("Tarif: %s", a.Plan),
		fmt.Sprintf("Maqsad: %s", a.Goal),
	}
	return strings.Join(lines, "\n")
}
