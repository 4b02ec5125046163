package rmqconsumer

import (
	"context"
	"errors"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"filelink-api/config"
	"filelink-api/internal/domain"
	"filelink-api/internal/domain/user"
)

type fakeRecorder struct {
	RecordDownloadFunc func(ctx context.Context, fileID string, downloader user.ID) (uint64, error)
}

func (f *fakeRecorder) RecordDownload(ctx context.Context, fileID string, downloader user.ID) (uint64, error) {
	return f.RecordDownloadFunc(ctx, fileID, downloader)
}

type settlement struct {
	acked, nacked, rejected bool
	requeue                 bool
	err                     error
}

func (s *settlement) Ack(uint64, bool) error {
	s.acked = true
	return s.err
}

func (s *settlement) Nack(_ uint64, _ bool, requeue bool) error {
	s.nacked, s.requeue = true, requeue
	return s.err
}

func (s *settlement) Reject(_ uint64, requeue bool) error {
	s.rejected, s.requeue = true, requeue
	return s.err
}

func Test_delivery_Table(t *testing.T) {
	transient := errors.New("db timeout")

	tests := []struct {
		name        string
		body        string
		redelivered bool
		recordErr   error
		wantFile    string
		wantUser    user.ID
		want        settlement
		wantErr     bool
	}{
		{
			name:     "recorded and acked",
			body:     `{"file_id":"FILE_ABC","user_id":42}`,
			wantFile: "FILE_ABC",
			wantUser: 42,
			want:     settlement{acked: true},
		},
		{
			name:     "anonymous downloader",
			body:     `{"file_id":"FILE_ABC"}`,
			wantFile: "FILE_ABC",
			want:     settlement{acked: true},
		},
		{
			name:    "malformed json dropped",
			body:    `{bad`,
			want:    settlement{rejected: true},
			wantErr: true,
		},
		{
			name:    "missing file id dropped",
			body:    `{"user_id":1}`,
			want:    settlement{rejected: true},
			wantErr: true,
		},
		{
			name:      "unknown file dropped",
			body:      `{"file_id":"FILE_GONE","user_id":1}`,
			recordErr: domain.ErrNotFound,
			wantFile:  "FILE_GONE",
			wantUser:  1,
			want:      settlement{rejected: true},
			wantErr:   true,
		},
		{
			name:      "transient failure requeued",
			body:      `{"file_id":"FILE_ABC","user_id":1}`,
			recordErr: transient,
			wantFile:  "FILE_ABC",
			wantUser:  1,
			want:      settlement{nacked: true, requeue: true},
			wantErr:   true,
		},
		{
			name:        "second transient failure not requeued",
			body:        `{"file_id":"FILE_ABC","user_id":1}`,
			redelivered: true,
			recordErr:   transient,
			wantFile:    "FILE_ABC",
			wantUser:    1,
			want:        settlement{nacked: true},
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var (
				gotFile string
				gotUser user.ID
			)
			c := New(config.MQ{}, zap.NewNop(), &fakeRecorder{
				RecordDownloadFunc: func(_ context.Context, fileID string, downloader user.ID) (uint64, error) {
					gotFile, gotUser = fileID, downloader
					return 1, tt.recordErr
				},
			})

			s := &settlement{}
			err := c.delivery(context.Background(), amqp091.Delivery{
				Acknowledger: s,
				RoutingKey:   DeliveredRoutingKey,
				Redelivered:  tt.redelivered,
				Body:         []byte(tt.body),
			})
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, *s)
			assert.Equal(t, tt.wantFile, gotFile)
			assert.Equal(t, tt.wantUser, gotUser)
		})
	}
}

func Test_delivery_Logging(t *testing.T) {
	closed := errors.New("channel/connection is not open")

	tests := []struct {
		name        string
		body        string
		redelivered bool
		recordErr   error
		settleErr   error
		wantMessage string
		wantField   string
		wantValue   any
	}{
		{
			name:        "failed reject is logged",
			body:        `{bad`,
			settleErr:   closed,
			wantMessage: "mq settlement failed",
			wantField:   "action",
			wantValue:   "reject",
		},
		{
			name:        "failed nack is logged",
			body:        `{"file_id":"FILE_ABC","user_id":1}`,
			recordErr:   errors.New("db timeout"),
			settleErr:   closed,
			wantMessage: "mq settlement failed",
			wantField:   "action",
			wantValue:   "nack",
		},
		{
			name:        "exhausted report is dead-lettered loudly",
			body:        `{"file_id":"FILE_ABC","user_id":1}`,
			redelivered: true,
			recordErr:   errors.New("db timeout"),
			wantMessage: "download report failed twice, dead-lettering",
			wantField:   "dead_letter_exchange",
			wantValue:   "filelink.dlx",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			c := New(config.MQ{DeadLetterExchange: "filelink.dlx"}, zap.New(core), &fakeRecorder{
				RecordDownloadFunc: func(context.Context, string, user.ID) (uint64, error) {
					return 0, tt.recordErr
				},
			})

			err := c.delivery(context.Background(), amqp091.Delivery{
				Acknowledger: &settlement{err: tt.settleErr},
				Redelivered:  tt.redelivered,
				Body:         []byte(tt.body),
			})
			require.Error(t, err)

			entries := logs.FilterMessage(tt.wantMessage).All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantValue, entries[0].ContextMap()[tt.wantField])
		})
	}
}

func Test_deliveryQueueArgs(t *testing.T) {
	assert.Nil(t, deliveryQueueArgs(config.MQ{}))
	assert.Equal(t,
		amqp091.Table{"x-dead-letter-exchange": "filelink.dlx"},
		deliveryQueueArgs(config.MQ{DeadLetterExchange: "filelink.dlx"}),
	)
}

func TestConnect_InvalidDSN(t *testing.T) {
	c := New(config.MQ{}, zap.NewNop(), nil)

	err := c.Connect("amqp://bad:://dsn")
	require.Error(t, err)
	require.Nil(t, c.chConsume)
	require.Nil(t, c.conn)
}
