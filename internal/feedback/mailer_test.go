package feedback

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirelens/internal/common/logger"
)

type stubSES struct {
	input *ses.SendEmailInput
	err   error
}

func (s *stubSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	s.input = params
	return &ses.SendEmailOutput{}, s.err
}

func TestSESMailer_SendFeedback(t *testing.T) {
	stub := &stubSES{}
	m := &SESMailer{client: stub, fromEmail: "noreply@hirelens.io", logger: logger.NewTestLogger(t)}

	err := m.SendFeedback(context.Background(), "jane@example.com", "Your application feedback", "Dear Jane,")
	require.NoError(t, err)

	require.NotNil(t, stub.input)
	assert.Equal(t, "noreply@hirelens.io", *stub.input.Source)
	assert.Equal(t, []string{"jane@example.com"}, stub.input.Destination.ToAddresses)
	assert.Equal(t, "Your application feedback", *stub.input.Message.Subject.Data)
	assert.Equal(t, "Dear Jane,", *stub.input.Message.Body.Text.Data)
}
