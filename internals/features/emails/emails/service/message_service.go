package service

import (
	"encoding/json"
	"log"
	"time"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"github.com/tuomas2/serviceform/internals/configs"
	"github.com/tuomas2/serviceform/internals/features/emails/emails/model"
)

// MakeMessage queues one message rendered later from the template and
// context. The actual SMTP delivery happens in the sender sweep.
func MakeMessage(db *gorm.DB, template *model.EmailTemplate, context map[string]string,
	address string) (*model.EmailMessage, error) {

	log.Printf("[INFO] Creating email to %s", address)
	raw, err := json.Marshal(context)
	if err != nil {
		return nil, err
	}
	msg := &model.EmailMessage{
		EmailTemplateID:         &template.EmailTemplateID,
		EmailMessageFromAddress: configs.ServerEmail,
		EmailMessageToAddress:   address,
		EmailMessageSubject:     template.EmailTemplateSubject,
		EmailMessageContent:     template.EmailTemplateContent,
		EmailMessageContext:     raw,
	}
	if err := db.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

func messageContext(msg *model.EmailMessage) map[string]string {
	context := map[string]string{}
	if len(msg.EmailMessageContext) > 0 {
		_ = json.Unmarshal(msg.EmailMessageContext, &context)
	}
	return context
}

// SubjectDisplay renders the stored subject against the stored context.
func SubjectDisplay(msg *model.EmailMessage) string {
	return Render(msg.EmailMessageSubject, messageContext(msg))
}

// ContentDisplay renders the stored content against the stored context.
func ContentDisplay(msg *model.EmailMessage) string {
	return Render(msg.EmailMessageContent, messageContext(msg))
}

// Sender delivers rendered messages over SMTP.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewSMTPSender() Sender {
	return gomail.NewDialer(configs.SMTPHost, configs.SMTPPort, configs.SMTPUser, configs.SMTPPassword)
}

// SendMessage renders and delivers one queued message, then marks it sent
// and scrubs the auth URL from the stored context since it embeds a
// password.
func SendMessage(db *gorm.DB, sender Sender, msg *model.EmailMessage) error {
	if msg.EmailMessageSentAt != nil {
		return nil
	}
	log.Printf("[INFO] Sending email to %s", msg.EmailMessageToAddress)

	context := messageContext(msg)
	m := gomail.NewMessage()
	m.SetHeader("From", msg.EmailMessageFromAddress)
	m.SetHeader("To", msg.EmailMessageToAddress)
	m.SetHeader("Subject", Render(msg.EmailMessageSubject, context))
	if unsub := context["list_unsubscribe"]; unsub != "" {
		m.SetHeader("List-Unsubscribe", "<"+unsub+">")
	}
	m.SetBody("text/plain", Render(msg.EmailMessageContent, context))

	if err := sender.DialAndSend(m); err != nil {
		log.Printf("[ERROR] Email message to %s could not be sent: %v", msg.EmailMessageToAddress, err)
		return err
	}

	now := time.Now()
	msg.EmailMessageSentAt = &now
	updates := map[string]interface{}{"email_message_sent_at": now}
	if _, ok := context["url"]; ok {
		context["url"] = "http://***password*removed***"
		raw, err := json.Marshal(context)
		if err == nil {
			msg.EmailMessageContext = raw
			updates["email_message_context"] = msg.EmailMessageContext
		}
	}
	return db.Model(&model.EmailMessage{}).
		Where("email_message_id = ?", msg.EmailMessageID).
		Updates(updates).Error
}

// StartEmailSenderScheduler sweeps unsent messages in the background.
func StartEmailSenderScheduler(db *gorm.DB, sender Sender) {
	go func() {
		for {
			var msgs []model.EmailMessage
			err := db.Where("email_message_sent_at IS NULL").
				Order("email_message_id").
				Limit(100).
				Find(&msgs).Error
			if err != nil {
				log.Printf("[ERROR] email sender sweep failed: %v", err)
			}
			for i := range msgs {
				if err := SendMessage(db, sender, &msgs[i]); err != nil {
					log.Printf("[WARN] email %d left queued: %v", msgs[i].EmailMessageID, err)
				}
			}
			time.Sleep(5 * time.Second)
		}
	}()
}
