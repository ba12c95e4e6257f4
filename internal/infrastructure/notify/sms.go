package notify

import (
	"context"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
)

// MessageCreator is the Twilio messages endpoint
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier texts the alert through Twilio
type SMSNotifier struct {
	api  MessageCreator
	from string
	to   string
	log  *zap.Logger
}

// NewTwilioAPI builds the Twilio messages client from account credentials
func NewTwilioAPI(accountSID, authToken string) MessageCreator {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return client.Api
}

func NewSMSNotifier(api MessageCreator, from, to string, log *zap.Logger) *SMSNotifier {
	return &SMSNotifier{api: api, from: from, to: to, log: log}
}

func (n *SMSNotifier) Notify(_ context.Context, alert entity.StockAlert) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(alert.Message())

	resp, err := n.api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp != nil && resp.Sid != nil {
		n.log.Debug("low stock sms sent", zap.String("sid", *resp.Sid), zap.String("item", alert.Name))
	}
	return nil
}
