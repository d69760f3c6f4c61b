package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/topograph/internal/config"
	"github.com/nfrund/topograph/internal/corpus"
	"github.com/nfrund/topograph/internal/remap"
	"github.com/nfrund/topograph/internal/report"
	"github.com/nfrund/topograph/internal/testutils"
	"github.com/nfrund/topograph/internal/topology"
)

var sourceTree = map[string]string{
	"talker/talker.cpp": `void Talker::init() {
  pub_ = node->create_publisher<std_msgs::msg::String>("/chatter_raw", 10);
}`,
	"listener/listener.cpp": `void Listener::init() {
  sub_ = node->create_subscription<std_msgs::msg::String>("/chatter", 10, cb);
}`,
	"odom/odom.cpp": `void Odom::init() {
  odom_pub_ = create_publisher<Odometry>("/odom", 10);
  diag_pub_ = create_publisher<DiagnosticArray>("/diagnostics", 1);
}`,
	"nav/nav.cpp": `void Nav::init() {
  odom_sub_ = create_subscription<Odometry>("/robot/odom", 10, cb);
}`,
	"launch/bringup.launch.xml": `<launch>
  <node pkg="talker" exec="talker">
    <remap from="/chatter_raw" to="/chatter"/>
  </node>
</launch>`,
	"launch/odom.launch.py": `def generate_launch_description():
    return LaunchDescription([
        Node(
            package="odom",
            name="odom",
            remappings=[("/odom", "/robot/odom")],
        ),
    ])`,
	"talker/package.xml": `<package format="3"><name>talker</name></package>`,
}

type fakeRenderer struct {
	calls int
	err   error
}

func (f *fakeRenderer) Render(context.Context, string, string, string) error {
	f.calls++
	return f.err
}

func newSourceFs(t *testing.T) afero.Fs {
	return testutils.MemSource(t, "/src", sourceTree)
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestExtractor_Run(t *testing.T) {
	memFs := newSourceFs(t)
	renderer := &fakeRenderer{}

	rep, err := New(memFs, testutils.ConfigForTests(t, nil), renderer, nil).Run(context.Background(), Options{
		SourceDir: "/src",
		OutputDir: "/out",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rep.RunID)
	assert.Len(t, rep.Nodes, 4)
	assert.Equal(t, map[remap.Origin]int{remap.OriginXMLDirect: 1, remap.OriginPython: 1}, rep.RulesByOrigin)
	assert.Equal(t, []topology.Connection{
		{Publisher: "odom", Topic: "/robot/odom", Subscribers: []string{"nav"}},
		{Publisher: "talker", Topic: "/chatter", Subscribers: []string{"listener"}},
	}, rep.Result.Connections)
	assert.Equal(t, []topology.Orphan{
		{Topic: "/diagnostics", Node: "odom", FilePath: "/src/odom/odom.cpp"},
	}, rep.Result.UnsubscribedPublishers)
	assert.Empty(t, rep.Result.UnpublishedSubscribers)
	assert.Equal(t, 1, renderer.calls)

	assert.Equal(t, "Node,Original,New\n"+
		"talker,/chatter_raw,/chatter,xml\n"+
		"odom,/odom,/robot/odom,python\n", readFile(t, memFs, "/out/"+report.RemapFile))
	assert.Equal(t, "odom,/robot/odom,nav\ntalker,/chatter,listener\n", readFile(t, memFs, "/out/"+report.ConnectionFile))
	assert.Equal(t, "Topic,Node,FilePath\n/diagnostics,odom,/src/odom/odom.cpp\n", readFile(t, memFs, "/out/"+report.UnsubscribedFile))
	assert.Equal(t, "Topic,Node,FilePath\n", readFile(t, memFs, "/out/"+report.UnpublishedFile))
	assert.Contains(t, readFile(t, memFs, "/out/"+report.MatchFile), "Code,BytePos,Statement,Topic\n")

	dot := readFile(t, memFs, "/out/connect_graph.dot")
	assert.Contains(t, dot, `"talker" -> "/chatter";`)
	assert.Contains(t, dot, `"/robot/odom" -> "nav";`)
	assert.Equal(t, "/out/connect_graph.svg", rep.Diagram.ImagePath)
}

func TestExtractor_ConfiguredPatternsAndFormat(t *testing.T) {
	memFs := newSourceFs(t)
	cfg := testutils.ConfigForTests(t, map[string]string{
		"TOPOGRAPH_SOURCE_PATTERNS": "{talker,listener}/*.cpp",
		"TOPOGRAPH_DIAGRAM_FORMAT":  "png",
	})

	rep, err := New(memFs, cfg, &fakeRenderer{}, nil).Run(context.Background(), Options{
		SourceDir: "/src",
		OutputDir: "/out/nested",
	})
	require.NoError(t, err)

	assert.Len(t, rep.Nodes, 2)
	assert.Equal(t, []topology.Connection{
		{Publisher: "talker", Topic: "/chatter", Subscribers: []string{"listener"}},
	}, rep.Result.Connections)
	assert.Equal(t, "/out/nested/connect_graph.png", rep.Diagram.ImagePath)
}

func TestExtractor_Exclusions(t *testing.T) {
	memFs := newSourceFs(t)

	rep, err := New(memFs, config.Default(), &fakeRenderer{}, nil).Run(context.Background(), Options{
		SourceDir:  "/src",
		OutputDir:  "/out",
		Exclusions: []string{"nav", "ghost"},
	})
	require.NoError(t, err)

	assert.Equal(t, []topology.Connection{
		{Publisher: "talker", Topic: "/chatter", Subscribers: []string{"listener"}},
	}, rep.Drawn)
	assert.Equal(t, []string{"ghost"}, rep.UnmatchedExclusions)

	assert.Equal(t, "odom,/robot/odom,nav\ntalker,/chatter,listener\n", readFile(t, memFs, "/out/"+report.ConnectionFile),
		"the connection list is written before exclusions apply")
	assert.NotContains(t, readFile(t, memFs, "/out/connect_graph.dot"), `"nav"`)
}

func TestExtractor_Errors(t *testing.T) {
	t.Run("missing source directory", func(t *testing.T) {
		_, err := New(afero.NewMemMapFs(), config.Default(), &fakeRenderer{}, nil).Run(context.Background(), Options{
			SourceDir: "/nowhere",
			OutputDir: "/out",
		})
		assert.ErrorIs(t, err, corpus.ErrSourceMissing)
	})

	t.Run("output path is a file", func(t *testing.T) {
		memFs := newSourceFs(t)
		require.NoError(t, afero.WriteFile(memFs, "/out", []byte("x"), 0644))

		_, err := New(memFs, config.Default(), &fakeRenderer{}, nil).Run(context.Background(), Options{
			SourceDir: "/src",
			OutputDir: "/out",
		})
		assert.ErrorIs(t, err, report.ErrNotDirectory)
	})

	t.Run("malformed launch description", func(t *testing.T) {
		memFs := newSourceFs(t)
		require.NoError(t, afero.WriteFile(memFs, "/src/launch/broken.launch.xml", []byte("<launch><node>"), 0644))

		_, err := New(memFs, config.Default(), &fakeRenderer{}, nil).Run(context.Background(), Options{
			SourceDir: "/src",
			OutputDir: "/out",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken.launch.xml")
	})

	t.Run("render failure keeps the report", func(t *testing.T) {
		memFs := newSourceFs(t)

		rep, err := New(memFs, config.Default(), &fakeRenderer{err: errors.New("dot missing")}, nil).Run(context.Background(), Options{
			SourceDir: "/src",
			OutputDir: "/out",
		})
		require.Error(t, err)
		require.NotNil(t, rep)
		assert.Len(t, rep.Result.Connections, 2)
	})
}
