package docker

import (
	"archive/tar"
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"os"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sergey2677/nginx/internal/logging"
)

type fakeEngine struct {
	version   string
	pingErr   error
	execOut   []byte
	exitCode  int
	execCmd   []string
	files     map[string][]byte
	links     map[string]string
	copyCalls []string
}

func (f *fakeEngine) Ping(context.Context) (types.Ping, error) {
	return types.Ping{}, f.pingErr
}

func (f *fakeEngine) ServerVersion(context.Context) (types.Version, error) {
	return types.Version{Version: f.version}, nil
}

func (f *fakeEngine) ContainerExecCreate(_ context.Context, _ string, options container.ExecOptions) (container.ExecCreateResponse, error) {
	f.execCmd = options.Cmd
	return container.ExecCreateResponse{ID: "exec-1"}, nil
}

func (f *fakeEngine) ContainerExecAttach(context.Context, string, container.ExecAttachOptions) (types.HijackedResponse, error) {
	conn, peer := net.Pipe()
	peer.Close()
	return types.HijackedResponse{
		Conn:   conn,
		Reader: bufio.NewReader(bytes.NewReader(f.execOut)),
	}, nil
}

func (f *fakeEngine) ContainerExecInspect(context.Context, string) (container.ExecInspect, error) {
	return container.ExecInspect{ExecID: "exec-1", ExitCode: f.exitCode}, nil
}

func (f *fakeEngine) CopyFromContainer(_ context.Context, _ string, srcPath string) (io.ReadCloser, container.PathStat, error) {
	f.copyCalls = append(f.copyCalls, srcPath)
	if target, ok := f.links[srcPath]; ok {
		return io.NopCloser(bytes.NewReader(nil)), container.PathStat{Mode: os.ModeSymlink, LinkTarget: target}, nil
	}
	data, ok := f.files[srcPath]
	if !ok {
		return nil, container.PathStat{}, errors.New("no such file")
	}
	return io.NopCloser(bytes.NewReader(tarFile("file", data))), container.PathStat{Size: int64(len(data))}, nil
}

func TestParseExecOutput_SplitsStdoutAndStderr(t *testing.T) {
	stream := append(frameDockerStream(1, []byte("hello\n")), frameDockerStream(2, []byte("warn\n"))...)

	stdout, stderr, err := parseExecOutput(bytes.NewReader(stream))

	require.NoError(t, err)
	assert.Equal(t, []byte("hello\n"), stdout)
	assert.Equal(t, []byte("warn\n"), stderr)
}

func TestRuntime_ExecInContainer_RejectsEmptyCommand(t *testing.T) {
	r := &Runtime{log: logging.Discard()}

	tests := []struct {
		name string
		cmd  []string
	}{
		{name: "nil", cmd: nil},
		{name: "empty slice", cmd: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.ExecInContainer(context.Background(), "edge1", tt.cmd)
			require.Error(t, err)
			assert.Nil(t, result)
		})
	}
}

func TestRuntime_ExecInContainer_ReportsExitCode(t *testing.T) {
	engine := &fakeEngine{
		execOut:  append(frameDockerStream(1, []byte("Saving debug log\n")), frameDockerStream(2, []byte("rate limited\n"))...),
		exitCode: 1,
	}
	r := &Runtime{client: engine, log: logging.Discard()}

	result, err := r.ExecInContainer(context.Background(), "edge1", []string{"./letsencrypt-initialize.sh"})
	require.NoError(t, err)

	assert.Equal(t, []string{"./letsencrypt-initialize.sh"}, engine.execCmd)
	assert.Equal(t, 1, result.ExitCode)
	assert.Equal(t, "Saving debug log\n", string(result.Stdout))
	assert.Equal(t, "rate limited\n", string(result.Stderr))
}

func TestRuntime_CopyFromContainer(t *testing.T) {
	engine := &fakeEngine{files: map[string][]byte{
		"/etc/nginx/conf.d/default.conf": []byte("server {}\n"),
	}}
	r := &Runtime{client: engine, log: logging.Discard()}

	rc, err := r.CopyFromContainer(context.Background(), "edge1", "/etc/nginx/conf.d/default.conf")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "server {}\n", string(data))
}

func TestRuntime_CopyFromContainer_FollowsSymlink(t *testing.T) {
	engine := &fakeEngine{
		links: map[string]string{
			"/etc/letsencrypt/live/example.com/fullchain.pem": "../../archive/example.com/fullchain1.pem",
		},
		files: map[string][]byte{
			"/etc/letsencrypt/archive/example.com/fullchain1.pem": []byte("PEM"),
		},
	}
	r := &Runtime{client: engine, log: logging.Discard()}

	rc, err := r.CopyFromContainer(context.Background(), "edge1", "/etc/letsencrypt/live/example.com/fullchain.pem")
	require.NoError(t, err)

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "PEM", string(data))
	assert.Equal(t, []string{
		"/etc/letsencrypt/live/example.com/fullchain.pem",
		"/etc/letsencrypt/archive/example.com/fullchain1.pem",
	}, engine.copyCalls)
}

func TestRuntime_CopyFromContainer_Missing(t *testing.T) {
	r := &Runtime{client: &fakeEngine{}, log: logging.Discard()}

	_, err := r.CopyFromContainer(context.Background(), "edge1", "/nope")
	assert.ErrorContains(t, err, "no such file")
}

func TestRuntime_PingAndVersion(t *testing.T) {
	r := &Runtime{client: &fakeEngine{version: "28.0.1"}, log: logging.Discard()}

	require.NoError(t, r.Ping(context.Background()))
	version, err := r.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "28.0.1", version)

	r = &Runtime{client: &fakeEngine{pingErr: errors.New("refused")}, log: logging.Discard()}
	assert.ErrorContains(t, r.Ping(context.Background()), "refused")
}

func TestReadSingleFile_SkipsDirectories(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "conf.d/", Typeflag: tar.TypeDir, Mode: 0755}))
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "conf.d/default.conf", Typeflag: tar.TypeReg, Mode: 0644, Size: 2}))
	_, err := tw.Write([]byte("ok"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())

	data, err := readSingleFile(&buf)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))

	_, err = readSingleFile(bytes.NewReader(tarDirOnly(t)))
	assert.ErrorContains(t, err, "no regular file")
}

func tarDirOnly(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "empty/", Typeflag: tar.TypeDir, Mode: 0755}))
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func tarFile(name string, data []byte) []byte {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	_ = tw.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeReg, Mode: 0644, Size: int64(len(data))})
	_, _ = tw.Write(data)
	_ = tw.Close()
	return buf.Bytes()
}

func frameDockerStream(streamID byte, payload []byte) []byte {
	frame := make([]byte, 8+len(payload))
	frame[0] = streamID
	binary.BigEndian.PutUint32(frame[4:8], uint32(len(payload)))
	copy(frame[8:], payload)
	return frame
}
