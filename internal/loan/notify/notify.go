// internal/loan/notify/notify.go
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	"loan-intake-engine/internal/common/config"
	"loan-intake-engine/internal/common/logger"
	"loan-intake-engine/internal/models"
)

// EmailSender is the SES slice the notifier uses.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SMSSender is the SNS slice the notifier uses.
type SMSSender interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// Notifier sends the prediction outcome to the applicant over email and
// SMS. Both channels are best-effort: a send failure is logged and never
// fails the conversation turn.
type Notifier struct {
	email  EmailSender
	sms    SMSSender
	cfg    config.AWSConfig
	logger logger.Logger
}

func NewNotifier(email EmailSender, sms SMSSender, cfg config.AWSConfig, log logger.Logger) *Notifier {
	return &Notifier{email: email, sms: sms, cfg: cfg, logger: log}
}

// NotifyPrediction fans out to both channels using the contact details
// collected in the profile.
func (n *Notifier) NotifyPrediction(ctx context.Context, productName string, app *models.Application) {
	if email, ok := app.Profile["Customer_Email"].(string); ok {
		n.sendEmail(ctx, productName, email, app)
	}
	if phone, ok := app.Profile["Customer_Phone"].(string); ok {
		n.sendSMS(ctx, productName, phone, app)
	}
}

func (n *Notifier) sendEmail(ctx context.Context, productName, to string, app *models.Application) {
	if n.email == nil || !n.cfg.SES.Enabled {
		return
	}

	name, _ := app.Profile["Customer_Name"].(string)
	subject := fmt.Sprintf("Your %s Application Result", productName)
	body := emailBody(name, productName, app.Result)

	_, err := n.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.cfg.SES.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		n.logger.Warn("result email not sent", map[string]interface{}{
			"application_id": app.ID,
			"error":          err.Error(),
		})
		return
	}
	n.logger.Info("result email sent", map[string]interface{}{
		"application_id": app.ID,
	})
}

func (n *Notifier) sendSMS(ctx context.Context, productName, phone string, app *models.Application) {
	if n.sms == nil || !n.cfg.SNS.Enabled {
		return
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String("+91" + phone),
		Message:     aws.String(smsBody(productName, app.Result)),
	}
	if n.cfg.SNS.DefaultSMSSenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(n.cfg.SNS.DefaultSMSSenderID),
			},
		}
	}

	_, err := n.sms.Publish(ctx, input)
	if err != nil {
		n.logger.Warn("result SMS not sent", map[string]interface{}{
			"application_id": app.ID,
			"error":          err.Error(),
		})
		return
	}
	n.logger.Info("result SMS sent", map[string]interface{}{
		"application_id": app.ID,
	})
}

func emailBody(name, productName string, r models.PredictionResult) string {
	greeting := "Dear Applicant"
	if name != "" {
		greeting = "Dear " + name
	}

	verdict := "your application qualifies for full approval"
	if r.Status == models.StatusPartialApproval {
		verdict = "your application qualifies for a partial approval"
	}

	return fmt.Sprintf(`%s,

Thank you for your %s application. Based on the details you provided, %s.

Sanctioned amount: ₹%.0f
Interest rate: %.2f%% p.a.
Requested amount: ₹%.0f

A loan officer will contact you shortly to complete the process.

Regards,
Loan Services Team`, greeting, productName, verdict, r.EligibleAmount, r.InterestRate, r.RequestedAmount)
}

func smsBody(productName string, r models.PredictionResult) string {
	return fmt.Sprintf("%s update: %s. Sanctioned ₹%.0f at %.2f%% p.a.",
		productName, r.Status, r.EligibleAmount, r.InterestRate)
}
