package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jaffarkeikei/vector-markets/service"
)

type mockSettler struct {
	mock.Mock
}

func (m *mockSettler) SettleMatch(ctx context.Context, matchID string, homeScore, awayScore int) error {
	args := m.Called(ctx, matchID, homeScore, awayScore)
	return args.Error(0)
}

func TestConsumer_Handle_Settles(t *testing.T) {
	ctx := context.Background()
	settler := new(mockSettler)
	c := NewConsumer(nil, settler)

	settler.On("SettleMatch", ctx, "match-1", 2, 1).Return(nil)

	commit := c.handle(ctx, []byte(`{"matchId":"match-1","homeScore":2,"awayScore":1}`))

	assert.True(t, commit)
	settler.AssertExpectations(t)
}

func TestConsumer_Handle_MalformedPayloadCommits(t *testing.T) {
	ctx := context.Background()
	settler := new(mockSettler)
	c := NewConsumer(nil, settler)

	commit := c.handle(ctx, []byte(`not json`))

	assert.True(t, commit)
	settler.AssertNotCalled(t, "SettleMatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConsumer_Handle_UnknownMatchCommits(t *testing.T) {
	ctx := context.Background()
	settler := new(mockSettler)
	c := NewConsumer(nil, settler)

	settler.On("SettleMatch", ctx, "ghost", 1, 0).Return(service.ErrMatchNotFound)

	commit := c.handle(ctx, []byte(`{"matchId":"ghost","homeScore":1,"awayScore":0}`))

	assert.True(t, commit)
}

func TestConsumer_Handle_TransientErrorDoesNotCommit(t *testing.T) {
	ctx := context.Background()
	settler := new(mockSettler)
	c := NewConsumer(nil, settler)

	settler.On("SettleMatch", ctx, "match-1", 2, 1).Return(errors.New("connection reset"))

	commit := c.handle(ctx, []byte(`{"matchId":"match-1","homeScore":2,"awayScore":1}`))

	assert.False(t, commit)
}

// stubReader serves queued messages and cancels the run when drained
type stubReader struct {
	messages  []kafka.Message
	committed []kafka.Message
	cancel    context.CancelFunc
}

func (r *stubReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		r.cancel()
		return kafka.Message{}, context.Canceled
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *stubReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *stubReader) Close() error { return nil }

func TestConsumer_Run_CommitsHandledMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settler := new(mockSettler)
	reader := &stubReader{
		messages: []kafka.Message{
			{Offset: 1, Value: []byte(`{"matchId":"match-1","homeScore":2,"awayScore":1}`)},
			{Offset: 2, Value: []byte(`{"matchId":"match-2","homeScore":0,"awayScore":0}`)},
		},
		cancel: cancel,
	}
	c := NewConsumer(reader, settler)

	settler.On("SettleMatch", mock.Anything, "match-1", 2, 1).Return(nil)
	settler.On("SettleMatch", mock.Anything, "match-2", 0, 0).Return(nil)

	err := c.Run(ctx)

	assert.NoError(t, err)
	assert.Len(t, reader.committed, 2)
	settler.AssertExpectations(t)
}
