package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/kdquach/thetrois-backend/pkg/enums"
	"github.com/kdquach/thetrois-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSinkLevels(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})
	sink := NewLogSink(logg)

	sink.Notify(context.Background(), Message{
		Type:   enums.NoticeError,
		Title:  "Có lỗi xảy ra",
		Detail: "Vui lòng thử lại sau",
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "notice.emitted", entry["message"])
	assert.Equal(t, "Có lỗi xảy ra", entry["notice_title"])

	buf.Reset()
	sink.Notify(context.Background(), Message{Type: enums.NoticeSuccess, Title: "Đã thêm vào giỏ hàng"})
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
}

func TestLogSinkNilSafe(t *testing.T) {
	var sink *LogSink
	sink.Notify(context.Background(), Message{Type: enums.NoticeInfo, Title: "x"})

	NewLogSink(nil).Notify(context.Background(), Message{Type: enums.NoticeInfo, Title: "x"})
}
