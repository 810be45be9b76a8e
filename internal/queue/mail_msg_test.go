package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMsg() MailMessage {
	return MailMessage{
		OrderNo:      "TCABC123",
		Email:        "anu@example.com",
		ProductTitle: "Cotton Kurta",
		SellerTitle:  "Ravi Textiles",
		OrderPrice:   49900,
		Address:      "12 MG Road, Begumpet, Hyderabad, Telangana, 500016",
	}
}

func TestMailMessageValidate(t *testing.T) {
	assert.NoError(t, validMsg().Validate())

	m := validMsg()
	m.OrderNo = ""
	assert.Error(t, m.Validate())

	m = validMsg()
	m.Email = ""
	assert.Error(t, m.Validate())

	m = validMsg()
	m.ProductTitle = ""
	assert.Error(t, m.Validate())

	m = validMsg()
	m.OrderPrice = 0
	assert.Error(t, m.Validate())
}

func TestParseMailEvent(t *testing.T) {
	values := map[string]interface{}{
		"order_no":      "TCABC123",
		"email":         "anu@example.com",
		"product_title": "Cotton Kurta",
		"seller_title":  "Ravi Textiles",
		"order_price":   "49900",
		"address":       "12 MG Road, Begumpet, Hyderabad, Telangana, 500016",
	}

	msg, err := parseMailEvent(values)
	require.NoError(t, err)
	assert.Equal(t, validMsg(), msg)
}

func TestParseMailEventNumericPrice(t *testing.T) {
	values := map[string]interface{}{
		"order_no":      "TCABC123",
		"email":         "anu@example.com",
		"product_title": "Cotton Kurta",
		"seller_title":  "Ravi Textiles",
		"order_price":   int64(49900),
		"address":       "somewhere",
	}

	msg, err := parseMailEvent(values)
	require.NoError(t, err)
	assert.Equal(t, int64(49900), msg.OrderPrice)
}

func TestParseMailEventMissingField(t *testing.T) {
	values := map[string]interface{}{
		"order_no": "TCABC123",
	}
	_, err := parseMailEvent(values)
	assert.Error(t, err)
}

func TestParseMailEventBadPrice(t *testing.T) {
	values := map[string]interface{}{
		"order_no":      "TCABC123",
		"email":         "anu@example.com",
		"product_title": "Cotton Kurta",
		"seller_title":  "Ravi Textiles",
		"order_price":   "not-a-number",
		"address":       "somewhere",
	}
	_, err := parseMailEvent(values)
	assert.Error(t, err)
}

func TestConfirmationBodyRendersRupees(t *testing.T) {
	body := confirmationBody(validMsg())
	assert.Contains(t, body, "TCABC123")
	assert.Contains(t, body, "Cotton Kurta")
	assert.Contains(t, body, "Rs 499.00")
	assert.Contains(t, body, "Ravi Textiles")
}
