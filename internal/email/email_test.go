package email

import (
	"testing"

	"rpe/internal/config"
)

func newTestService(enabled bool) *Service {
	return NewService(&config.EmailConfig{
		Enabled:  enabled,
		SMTPHost: "localhost",
		SMTPPort: "1",
		SMTPFrom: "noreply@rpe.com",
	})
}

func TestDeliverable(t *testing.T) {
	svc := newTestService(true)

	tests := []struct {
		name string
		to   string
		want bool
	}{
		{"valid corporate address", "ana.souza@corp.com", true},
		{"placeholder example domain", "ana.souza@example.com", false},
		{"placeholder empresa domain", "Bruno.Lima@Empresa.com", false},
		{"invalid address", "not-an-email", false},
		{"empty address", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.deliverable(tt.to); got != tt.want {
				t.Errorf("deliverable(%q) = %v, expected %v", tt.to, got, tt.want)
			}
		})
	}
}

func TestDeliverableDisabled(t *testing.T) {
	svc := newTestService(false)

	if svc.deliverable("ana.souza@corp.com") {
		t.Error("deliverable() = true with delivery disabled, expected false")
	}
}

func TestSendWelcomeEmailSkipsBlockedDomain(t *testing.T) {
	svc := newTestService(true)

	// Blocked addresses are skipped before any SMTP dial, so this must
	// succeed without a server listening.
	if err := svc.SendWelcomeEmail("novo.usuario@example.com", "Novo Usuário", "senha-inicial"); err != nil {
		t.Errorf("SendWelcomeEmail() to blocked domain error = %v, expected nil skip", err)
	}
}

func TestSendBrutalFactsEmailSkipsWhenDisabled(t *testing.T) {
	svc := newTestService(false)

	if err := svc.SendBrutalFactsEmail("mentor@corp.com", "Carla Dias", "Ana Souza", "Ciclo 2024.1", "- Ponto um"); err != nil {
		t.Errorf("SendBrutalFactsEmail() with delivery disabled error = %v, expected nil skip", err)
	}
}

func TestSendSummaryEmailSkipsInvalidAddress(t *testing.T) {
	svc := newTestService(true)

	if err := svc.SendSummaryEmail("invalido", "Carla Dias", "Ana Souza", "Ciclo 2024.1", "Resumo"); err != nil {
		t.Errorf("SendSummaryEmail() to invalid address error = %v, expected nil skip", err)
	}
}
