package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/services"
	"storefront/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestContactService_Submit(t *testing.T) {
	channel := new(MockChannel)
	svc := services.NewContactService(channel, time.Second, zap.NewNop())

	channel.On("Send", mock.Anything, mock.MatchedBy(func(n notify.Notification) bool {
		var p notify.ContactPayload
		return n.Template == notify.TemplateContact &&
			json.Unmarshal(n.Payload, &p) == nil &&
			p.Name == "Bob" && p.Message == "Is the iPad in stock?"
	})).Return(nil).Once()

	err := svc.Submit(context.Background(), "s1", models.ContactMessage{Name: " Bob ", Email: "bob@example.com", Message: "Is the iPad in stock?"})
	require.NoError(t, err)
	channel.AssertExpectations(t)
}

func TestContactService_Validation(t *testing.T) {
	channel := new(MockChannel)
	svc := services.NewContactService(channel, time.Second, zap.NewNop())

	cases := map[string]models.ContactMessage{
		"name":    {Email: "bob@example.com", Message: "hi"},
		"email":   {Name: "Bob", Email: "bob@example", Message: "hi"},
		"message": {Name: "Bob", Email: "bob@example.com", Message: "   "},
	}
	for field, msg := range cases {
		err := svc.Submit(context.Background(), "s1", msg)
		ve, ok := apperrors.IsValidation(err)
		require.True(t, ok, field)
		assert.Equal(t, field, ve.Field)
	}
	channel.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestContactService_ChannelFailure(t *testing.T) {
	channel := new(MockChannel)
	svc := services.NewContactService(channel, time.Second, zap.NewNop())
	channel.On("Send", mock.Anything, mock.Anything).Return(errors.New("boom")).Once()

	err := svc.Submit(context.Background(), "s1", models.ContactMessage{Name: "Bob", Email: "bob@example.com", Message: "hi"})
	se, ok := apperrors.IsSubmission(err)
	require.True(t, ok)
	assert.Equal(t, "Failed to send message. Please try again later.", se.UserMessage)
}
