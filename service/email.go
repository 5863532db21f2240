package service

import (
	"fmt"
	"html"

	"nnact/config"
	"nnact/models"

	"github.com/juju/errors"
	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg  *config.EmailConfig
	send func(m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	s := &EmailService{cfg: cfg}
	s.send = s.dialAndSend
	return s
}

// NotifyServiceRequest 新预约邮件通知，未启用或未配置收件人时跳过
func (s *EmailService) NotifyServiceRequest(req *models.ServiceRequest) error {
	if !s.cfg.Enabled || s.cfg.NotifyTo == "" {
		return nil
	}
	subject := fmt.Sprintf("[NNACT] New %s-urgency request: %s", req.Urgency, req.ServiceType)
	return s.sendEmail(s.cfg.NotifyTo, subject, s.generateServiceRequestBody(req))
}

// generateServiceRequestBody 生成预约通知内容
func (s *EmailService) generateServiceRequestBody(req *models.ServiceRequest) string {
	e := html.EscapeString
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #0ea5e9, #0369a1); color: white; padding: 24px; text-align: center; }
        .header h1 { margin: 0; font-size: 22px; }
        .content { padding: 30px; }
        .content td { padding: 6px 10px; color: #333; vertical-align: top; }
        .label { font-weight: 600; color: #555; white-space: nowrap; }
        .urgency { display: inline-block; padding: 2px 10px; border-radius: 10px; background: #fff3cd; color: #856404; }
        .footer { background: #f8f9fa; padding: 16px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New service request</h1>
        </div>
        <div class="content">
            <table>
                <tr><td class="label">Customer</td><td>%s</td></tr>
                <tr><td class="label">Phone</td><td>%s</td></tr>
                <tr><td class="label">Email</td><td>%s</td></tr>
                <tr><td class="label">Service</td><td>%s</td></tr>
                <tr><td class="label">Urgency</td><td><span class="urgency">%s</span></td></tr>
                <tr><td class="label">Preferred</td><td>%s %s</td></tr>
                <tr><td class="label">Address</td><td>%s</td></tr>
                <tr><td class="label">Description</td><td>%s</td></tr>
            </table>
        </div>
        <div class="footer">
            <p>Sent automatically by the NNACT backend. Do not reply.</p>
        </div>
    </div>
</body>
</html>
`, e(req.CustomerName), e(req.PhoneNumber), e(req.Email), e(req.ServiceType), e(req.Urgency),
		e(req.PreferredDate), e(req.PreferredTime), e(req.Address), e(req.Description))
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return errors.Annotate(err, "send email")
	}
	return nil
}

func (s *EmailService) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
