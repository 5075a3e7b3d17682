package sms

import (
	"context"

	"kidsclub/pkg/consts"
	"kidsclub/utilities"
)

type SimulatedSender struct{}

func NewSimulatedSender() *SimulatedSender {
	return &SimulatedSender{}
}

func (s *SimulatedSender) SendSMS(_ context.Context, phone, msg string) error {
	utilities.NewLogger("SimulatedSender.SendSMS").Infof("[demo] sms to %s: %s", utilities.MaskPhone(phone), msg)
	return nil
}

func (s *SimulatedSender) Simulated() bool {
	return true
}

func (s *SimulatedSender) Name() string {
	return consts.Simulated
}
