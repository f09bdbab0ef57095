package email

import (
	"net/smtp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReceipt() Receipt {
	return Receipt{
		ReceiptID:     "RCP1700000000000",
		TransactionID: "TX1699999999000",
		Semester:      "2-1403",
		Lines:         []ReceiptLine{{Code: "CE201", Name: "Web <Programming>", Units: 3, Time: "Saturday 10-12"}},
		TotalUnits:    3,
		Tuition:       3100000,
		Currency:      "IRR",
	}
}

func TestSendRegistrationReceipt_WithoutCredentialsOnlyLogs(t *testing.T) {
	svc := NewEmailService(SMTPConfig{Host: "smtp.example.com", Port: 587}, zerolog.Nop())
	svc.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("mail must not be sent without credentials")
		return nil
	}

	assert.NoError(t, svc.SendRegistrationReceipt("a@b.c", "A", sampleReceipt()))
}

func TestSendRegistrationReceipt(t *testing.T) {
	svc := NewEmailService(SMTPConfig{
		Host: "smtp.example.com", Port: 587, Username: "u", Password: "p",
		FromName: "UniReg", FromEmail: "no-reply@unireg.app",
	}, zerolog.Nop())

	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	svc.sendMail = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		return nil
	}

	require.NoError(t, svc.SendRegistrationReceipt("student@uni.ac.ir", "Student", sampleReceipt()))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"student@uni.ac.ir"}, gotTo)

	body := string(gotMsg)
	assert.Contains(t, body, "Subject: Registration receipt RCP1700000000000 - 2-1403\r\n")
	assert.Contains(t, body, "Web &lt;Programming&gt;")
	assert.Contains(t, body, "3,100,000 IRR")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(0))
	assert.Equal(t, "200,000", FormatAmount(200000))
	assert.Equal(t, "2,500,000", FormatAmount(2500000))
	assert.Equal(t, "-1,000", FormatAmount(-1000))
}
