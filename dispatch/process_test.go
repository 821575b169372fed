package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// The test binary doubles as a process worker when this variable is set.
const workerEnv = "DEVTEXT_TEST_WORKER"

func TestMain(m *testing.M) {
	switch os.Getenv(workerEnv) {
	case "serve":
		if err := Serve(os.Stdin, os.Stdout); err != nil {
			os.Stderr.WriteString(err.Error())
			os.Exit(1)
		}
		os.Exit(0)
	case "crash":
		os.Stderr.WriteString("worker crashed")
		os.Exit(3)
	case "hang":
		time.Sleep(time.Minute)
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func testProcess(t *testing.T, mode string) ProcessSpawner {
	t.Helper()
	exe, err := os.Executable()
	require.NoError(t, err)
	return ProcessSpawner{
		Path: exe,
		Args: []string{"-test.run=^$"},
		Env:  []string{workerEnv + "=" + mode},
	}
}

func TestProcessWorkerRoundTrip(t *testing.T) {
	d := New(WithSpawner(testProcess(t, "serve")))

	resp, err := d.Dispatch(context.Background(), KindBeautifyCode, "function f(){return 1;}")
	require.NoError(t, err)
	require.True(t, resp.Success)

	var out string
	require.NoError(t, resp.DecodeResult(&out))
	require.Equal(t, "function f()\n{\n  return 1;\n}", out)
}

func TestProcessWorkerCrash(t *testing.T) {
	d := New(WithSpawner(testProcess(t, "crash")))

	_, err := d.Dispatch(context.Background(), KindMinifyCode, "x")
	require.True(t, IsFault(err))
	require.ErrorIs(t, err, ErrWorkerExited)
	require.Contains(t, err.Error(), "worker crashed")
}

func TestProcessWorkerTimeout(t *testing.T) {
	d := New(WithSpawner(testProcess(t, "hang")), WithTimeout(200*time.Millisecond))

	start := time.Now()
	_, err := d.Dispatch(context.Background(), KindMinifyCode, "x")
	require.True(t, IsTimeout(err))
	require.Less(t, time.Since(start), 30*time.Second)
}

func TestServe(t *testing.T) {
	in := strings.NewReader(`{"id":"t1","type":"minify-markup","data":"<p> a </p>"}`)
	var out bytes.Buffer
	require.NoError(t, Serve(in, &out))

	var resp Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Equal(t, "t1", resp.ID)
	require.True(t, resp.Success)
	require.JSONEq(t, `"<p>a</p>"`, string(resp.Result))
}

func TestHandleAlwaysReportsDuration(t *testing.T) {
	resp := Handle(Request{ID: "t2", Kind: KindValidateCode, Data: ""})
	require.True(t, resp.Success)
	require.GreaterOrEqual(t, resp.Duration, 0.0)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	require.Contains(t, fields, "duration")
}

func TestServeRejectsGarbage(t *testing.T) {
	var out bytes.Buffer
	err := Serve(strings.NewReader("not json"), &out)
	require.Error(t, err)
	require.Zero(t, out.Len())
}
