package proc

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeProcess struct {
	Pid     string
	Status  string
	Stat    string
	Cmdline string
}

func fakeRoot(t *testing.T, list ...fakeProcess) {
	t.Helper()

	dir := t.TempDir()
	for _, p := range list {
		pdir := filepath.Join(dir, p.Pid)
		require.NoError(t, os.Mkdir(pdir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(pdir, procStatus), []byte(p.Status), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(pdir, procStat), []byte(p.Stat), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(pdir, procCmdline), []byte(p.Cmdline), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sys"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uptime"), []byte("1.0 1.0\n"), 0644))

	prev := root
	root = dir
	t.Cleanup(func() { root = prev })
}

var (
	webProcess = fakeProcess{
		Pid:     "310",
		Status:  "Name:\tWeb Content\nState:\tS (sleeping)\nPid:\t310\nVmRSS:\t  20480 kB\n",
		Stat:    "310 (Web Content) S 1 310 310 0 -1 4194560 100 0 0 0 250 130 0 0 20 0 1 0 100 1000 5120\n",
		Cmdline: "/usr/lib/firefox/firefox\x00-contentproc\x00",
	}
	kernelThread = fakeProcess{
		Pid:    "2",
		Status: "Name:\tkthreadd\nState:\tS (sleeping)\nPid:\t2\n",
		Stat:   "2 (kthreadd) S 0 0 0 0 -1 2129984 0 0 0 0 0 7 0 0 20 0 1 0 2 0 0\n",
	}
)

func TestSnapshot(t *testing.T) {
	fakeRoot(t, webProcess, kernelThread)

	list, err := Snapshot(false)
	require.NoError(t, err)
	sort.Slice(list, func(i, j int) bool { return list[i].Pid < list[j].Pid })
	require.Equal(t, []Record{
		{Pid: "2", Mem: "0", CpuTime: "0", Name: "kthreadd"},
		{Pid: "310", Mem: "20480", CpuTime: "3", Name: "Web_Content"},
	}, list)
}

func TestSnapshotCommandName(t *testing.T) {
	fakeRoot(t, webProcess, kernelThread)

	list, err := Snapshot(true)
	require.NoError(t, err)
	sort.Slice(list, func(i, j int) bool { return list[i].Pid < list[j].Pid })
	require.Equal(t, "kthreadd", list[0].Name)
	require.Equal(t, "firefox", list[1].Name)
}

func TestSnapshotCommandLineVerbatim(t *testing.T) {
	shell := webProcess
	shell.Pid = "400"
	shell.Cmdline = "sh\x00-c\x00echo it's \"quoted\" \\\x00"
	app := webProcess
	app.Pid = "500"
	app.Cmdline = "/opt/My App/bin/app\x00--x\x00"
	fakeRoot(t, shell, app)

	list, err := Snapshot(true)
	require.NoError(t, err)
	sort.Slice(list, func(i, j int) bool { return list[i].Pid < list[j].Pid })
	require.Len(t, list, 2)
	require.Equal(t, "sh", list[0].Name)
	require.Equal(t, "app", list[1].Name)
}

func TestSnapshotSkipsExitedProcess(t *testing.T) {
	fakeRoot(t, webProcess, kernelThread)

	t.Cleanup(func() { readFile = os.ReadFile })
	readFile = func(file string) ([]byte, error) {
		if file == filepath.Join(root, webProcess.Pid, procStatus) {
			return nil, &fs.PathError{Op: "read", Path: file, Err: syscall.ESRCH}
		}
		return os.ReadFile(file)
	}

	list, err := Snapshot(false)
	require.NoError(t, err)
	require.Equal(t, []Record{{Pid: "2", Mem: "0", CpuTime: "0", Name: "kthreadd"}}, list)
}

func TestSnapshotReadFailure(t *testing.T) {
	fakeRoot(t, webProcess)

	t.Cleanup(func() { readFile = os.ReadFile })
	readFile = func(file string) ([]byte, error) {
		return nil, &fs.PathError{Op: "read", Path: file, Err: syscall.EIO}
	}

	_, err := Snapshot(false)
	require.ErrorIs(t, err, syscall.EIO)
}

func TestSnapshotRecordsParse(t *testing.T) {
	fakeRoot(t, webProcess, kernelThread)

	list, err := Snapshot(false)
	require.NoError(t, err)
	for _, r := range list {
		got, err := ParseLine(r.String())
		require.NoError(t, err)
		require.Equal(t, r, got)
	}
}

func TestReadCpuTicksMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, procStat), []byte("1 (init S 0\n"), 0644))
	_, err := readCpuTicks(dir)
	require.Error(t, err)
}
