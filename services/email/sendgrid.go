package emailsvc

import (
	"log"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/highschool/scheduler/core"
)

type sendgridService struct {
	client *sendgrid.Client
}

var _ core.EmailService = (*sendgridService)(nil)

func NewSendgridService() core.EmailService {
	return &sendgridService{
		client: sendgrid.NewSendClient(core.Conf.SendgridApiKey),
	}
}

func (svc sendgridService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		go svc.sendMessage(msg)
	}
}

func (svc sendgridService) sendMessage(msg *core.EmailMessage) {
	err := msg.Render()
	if err != nil {
		log.Fatalf("%+v", errors.Wrap(err, "rendering email"))
	}
	if msg.HasRecipients() && msg.HasContent() {
		if err = svc.send(*msg); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

func (svc sendgridService) send(msg core.EmailMessage) error {
	from := core.Conf.DefaultFromEmail
	sgm := sgmail.NewV3Mail()
	sgm.SetFrom(sgmail.NewEmail(from.Name, from.Address))
	sgm.Subject = msg.Subject

	p := sgmail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(sgmail.NewEmail(to.Name, to.Address))
	}
	for _, cc := range msg.Cc {
		p.AddCCs(sgmail.NewEmail(cc.Name, cc.Address))
	}
	for _, bcc := range msg.Bcc {
		p.AddBCCs(sgmail.NewEmail(bcc.Name, bcc.Address))
	}
	sgm.AddPersonalizations(p)

	sgm.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	if msg.HTMLContent != "" {
		sgm.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}

	resp, err := svc.client.Send(sgm)
	if err != nil {
		return errors.Wrap(err, "sending email")
	}
	if resp.StatusCode != http.StatusAccepted {
		return errors.Errorf("sending email. status: %d, body: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
