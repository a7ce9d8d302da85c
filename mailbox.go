package main

import (
	"bytes"
	"net"
	"net/smtp"
	"strings"

	"github.com/maxnilz/coinreport/errors"
)

type Mailbox interface {
	Send(report Report, recipients []string) error
}

func NewMailbox(cfg Config, logger Logger) (Mailbox, error) {
	mailSender := cfg.MailSender
	host, port, err := net.SplitHostPort(mailSender.SmtpServer)
	if err != nil {
		return nil, errors.Newf(errors.InvalidArgument, err, "invalid hostport")
	}
	senderAddr, password := mailSender.SenderAddr, mailSender.Password
	if senderAddr == "" || password == "" {
		return nil, errors.Newf(errors.InvalidArgument, nil, "invalid sender mail config")
	}
	auth := smtp.PlainAuth("", senderAddr, password, host)

	// TODO: need to support smtp over socks or http proxy

	return &smtpImpl{
		hostPort:   mailSender.SmtpServer,
		host:       host,
		port:       port,
		senderAddr: senderAddr,
		password:   password,
		auth:       auth,
		Logger:     logger,
	}, nil
}

type smtpImpl struct {
	hostPort, host, port string
	password             string
	auth                 smtp.Auth
	senderAddr           string
	Logger               Logger
}

// Send transmits the fully built report as one message to all recipients.
// Delivery is all-or-nothing: the message body is complete before the SMTP
// session starts, and a transport or auth failure delivers nothing.
func (s *smtpImpl) Send(report Report, recipients []string) error {
	buf := bytes.Buffer{}
	buf.WriteString("From: ")
	buf.WriteString(s.senderAddr)
	buf.WriteString("\r\n")
	buf.WriteString("To: ")
	buf.WriteString(strings.Join(recipients, ", "))
	buf.WriteString("\r\n")
	buf.WriteString("Subject: ")
	buf.WriteString(report.Subject)
	buf.WriteString("\r\n")
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(report.Body)

	s.Logger.Info("send report", "subject", report.Subject, "recipients", strings.Join(recipients, ","))
	if err := smtp.SendMail(s.hostPort, s.auth, s.senderAddr, recipients, buf.Bytes()); err != nil {
		return errors.Newf(errors.Unavailable, err, "deliver report failed")
	}
	return nil
}
