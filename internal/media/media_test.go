package media

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFrameDownscales(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2560, 1440))

	data, err := EncodeFrame(img, FrameMaxWidth, FrameQualityNormal)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1280, decoded.Bounds().Dx())
	assert.Equal(t, 720, decoded.Bounds().Dy())
}

func TestEncodeFrameKeepsSmallFrames(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))

	data, err := EncodeFrame(img, FrameMaxWidth, FrameQualityHigh)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 640, decoded.Bounds().Dx())
}

func TestEncodeFrameNilImage(t *testing.T) {
	_, err := EncodeFrame(nil, FrameMaxWidth, FrameQualityNormal)
	require.Error(t, err)
}

func TestStaticCamera(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.jpg")
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	camera := NewStaticCamera(path, FrameQualityNormal)
	ctx := context.Background()

	// Захват до открытия отклоняется
	_, err := camera.CaptureFrame(ctx)
	require.Error(t, err)

	require.NoError(t, camera.Open(ctx))
	frame, err := camera.CaptureFrame(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, frame)

	require.NoError(t, camera.Close())
	_, err = camera.CaptureFrame(ctx)
	require.Error(t, err)
}

func TestStaticCameraMissingFile(t *testing.T) {
	camera := NewStaticCamera(filepath.Join(t.TempDir(), "nope.jpg"), FrameQualityNormal)
	require.Error(t, camera.Open(context.Background()))
}

func TestFileRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.webm")
	require.NoError(t, os.WriteFile(path, []byte("webm-bytes"), 0644))

	recorder := NewFileRecorder(path)
	ctx := context.Background()

	// Остановка без записи отклоняется
	_, err := recorder.Stop(ctx)
	require.Error(t, err)

	require.NoError(t, recorder.Start(ctx))
	require.Error(t, recorder.Start(ctx))

	audio, err := recorder.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("webm-bytes"), audio)
}

func TestFilePlayerWritesAudio(t *testing.T) {
	dir := t.TempDir()
	player := NewFilePlayer(dir)

	require.NoError(t, player.Play(context.Background(), []byte("mp3-bytes")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "tts_")
}

func TestFilePlayerEmptyDirIsNoop(t *testing.T) {
	player := NewFilePlayer("")
	require.NoError(t, player.Play(context.Background(), []byte("mp3-bytes")))
}
