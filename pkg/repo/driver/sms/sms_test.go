package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsclub/config"
)

func TestSMSCSender_SendSMS(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "accepted", status: http.StatusOK, body: `{"id":7,"cnt":1}`},
		{name: "rejected", status: http.StatusOK, body: `{"error":"authorise error","error_code":2}`, wantErr: true},
		{name: "http failure", status: http.StatusBadGateway, body: `oops`, wantErr: true},
		{name: "garbage", status: http.StatusOK, body: `not json`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = map[string]string{
					"login":  r.URL.Query().Get("login"),
					"psw":    r.URL.Query().Get("psw"),
					"phones": r.URL.Query().Get("phones"),
					"mes":    r.URL.Query().Get("mes"),
					"fmt":    r.URL.Query().Get("fmt"),
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			sender, err := NewSMSCSender(config.SMS{Login: "user", Password: "pass", URL: srv.URL})
			require.NoError(t, err)

			err = sender.SendSMS(context.Background(), "79991234567", "Код: 5678")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, map[string]string{
				"login":  "user",
				"psw":    "pass",
				"phones": "79991234567",
				"mes":    "Код: 5678",
				"fmt":    "3",
			}, got)
		})
	}
}

func TestNewSMSCSender_MissingCredentials(t *testing.T) {
	_, err := NewSMSCSender(config.SMS{Login: "user"})
	assert.Error(t, err)
}

func TestNewSender(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.SMS
		want      string
		simulated bool
		wantErr   bool
	}{
		{name: "no credentials", cfg: config.SMS{}, want: "simulated", simulated: true},
		{name: "smsc credentials", cfg: config.SMS{Login: "l", Password: "p"}, want: "smsc"},
		{name: "forced simulated", cfg: config.SMS{Provider: "simulated", Login: "l", Password: "p"}, want: "simulated", simulated: true},
		{name: "unknown", cfg: config.SMS{Provider: "pigeon"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, err := NewSender(context.Background(), tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, sender.Name())
			assert.Equal(t, tt.simulated, sender.Simulated())
		})
	}
}

type fakePublisher struct {
	input *sns.PublishInput
}

func (f *fakePublisher) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

func TestSNSSender_SendSMS(t *testing.T) {
	publisher := &fakePublisher{}
	sender := &SNSSender{client: publisher, sender: "KidsClub"}

	require.NoError(t, sender.SendSMS(context.Background(), "79991234567", "Код: 5678"))
	assert.Equal(t, "+79991234567", aws.ToString(publisher.input.PhoneNumber))
	assert.Equal(t, "Код: 5678", aws.ToString(publisher.input.Message))
	assert.Equal(t, "KidsClub", aws.ToString(publisher.input.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue))
}
