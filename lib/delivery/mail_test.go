package delivery

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"barman/lib/configutil"
	"barman/lib/testutil"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type fakeSMTP struct {
	testcontainers.Container
	host     string
	smtpPort int
	webURL   string
}

func startFakeSMTP(t testing.TB) fakeSMTP {
	if testing.Short() {
		t.Skip("needs docker")
	}

	// suppress logging
	testcontainers.Logger = log.New(io.Discard, "", 0)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "haravich/fake-smtp-server",
			ExposedPorts: []string{"1025/tcp", "1080/tcp"},
			WaitingFor:   wait.ForLog("smtp://0.0.0.0:1025"),
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	smtpPort, err := container.MappedPort(ctx, "1025/tcp")
	require.NoError(t, err)
	webPort, err := container.MappedPort(ctx, "1080/tcp")
	require.NoError(t, err)

	return fakeSMTP{
		Container: container,
		host:      host,
		smtpPort:  smtpPort.Int(),
		webURL:    fmt.Sprintf("http://%s:%s", host, webPort.Port()),
	}
}

func TestMailSinkDeliversThroughServer(t *testing.T) {
	server := startFakeSMTP(t)

	path := filepath.Join(t.TempDir(), "un-article.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0644))

	sink := NewMailSink(
		configutil.MailConfig{Server: server.host, Port: server.smtpPort, From: "barman@email.com"},
		configutil.MailSecrets{Password: "default"},
		[]string{"reader@email.com"},
		&testutil.RecordingAPI{},
	)
	where, err := sink.Deliver(context.Background(), Document{
		Path:      path,
		SourceURL: "https://www.lemonde.fr/societe/article/2025/01/01/un-article_1_2.html",
	})
	require.NoError(t, err)
	require.Equal(t, "reader@email.com", where)

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)

	res, err := resty.New().R().Get(server.webURL + "/messages/1.source")
	require.NoError(t, err)
	require.Equal(t, 200, res.StatusCode())
	source := res.String()
	require.Contains(t, source, "Subject: Article: un-article")
	require.Contains(t, source, `filename="un-article.pdf"`)
	require.Contains(t, source, "un-article_1_2.html")
}
