// pkg/webserver/nginx.go
//
// Deploys an nginx container via the Docker API. Idempotent by container
// name: an existing healthy container is left alone, a stopped one is
// restarted, anything else gets recreated.

package webserver

import (
	"fmt"
	"io"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/groundworklabs/groundwork/pkg/gw_err"
	"github.com/groundworklabs/groundwork/pkg/gw_io"
)

const pingTimeout = 5 * time.Second

// DeployOptions controls the nginx deployment.
type DeployOptions struct {
	ContainerName string
	Image         string
	HTTPPort      int
	HTTPSPort     int
	TLSDir        string // host dir with server.crt/server.key, empty disables HTTPS
	EnableHTTPS   bool
	DryRun        bool
}

// NewDockerClient creates a Docker client from the environment with API
// version negotiation enabled.
func NewDockerClient() (*client.Client, error) {
	return client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
}

// Deploy pulls the configured image and ensures a running nginx container
// with the requested port bindings.
func Deploy(rc *gw_io.RuntimeContext, opts DeployOptions) error {
	logger := otelzap.Ctx(rc.Ctx)

	if opts.DryRun {
		logger.Info("Dry run - would deploy webserver",
			zap.String("container", opts.ContainerName),
			zap.String("image", opts.Image),
			zap.Int("http_port", opts.HTTPPort),
			zap.Bool("https", opts.EnableHTTPS))
		return nil
	}

	cli, err := NewDockerClient()
	if err != nil {
		return cerr.Wrap(err, "failed to create docker client")
	}
	defer cli.Close()

	pingCtx, cancel := rc.WithTimeout(pingTimeout)
	defer cancel()
	if _, err := cli.Ping(pingCtx); err != nil {
		return gw_err.NewExpectedError(rc.Ctx,
			cerr.Wrap(err, "docker daemon unreachable, is docker running?"))
	}

	if opts.EnableHTTPS {
		if err := EnsureSelfSignedCert(rc, opts.TLSDir); err != nil {
			return err
		}
	}

	existing, err := findContainer(rc, cli, opts.ContainerName)
	if err != nil {
		return err
	}
	if existing != nil {
		switch existing.State {
		case "running":
			logger.Info("Webserver container already running",
				zap.String("container", opts.ContainerName),
				zap.String("id", existing.ID[:12]))
			return nil
		case "exited", "created":
			logger.Info("Restarting stopped webserver container",
				zap.String("container", opts.ContainerName))
			return cli.ContainerStart(rc.Ctx, existing.ID, container.StartOptions{})
		default:
			logger.Info("Removing webserver container in unexpected state",
				zap.String("container", opts.ContainerName),
				zap.String("state", existing.State))
			if err := cli.ContainerRemove(rc.Ctx, existing.ID, container.RemoveOptions{Force: true}); err != nil {
				return cerr.Wrapf(err, "failed to remove container %s", opts.ContainerName)
			}
		}
	}

	if err := pullImage(rc, cli, opts.Image); err != nil {
		return err
	}

	contCfg, hostCfg := containerConfig(opts)
	resp, err := cli.ContainerCreate(rc.Ctx, contCfg, hostCfg, &network.NetworkingConfig{}, nil, opts.ContainerName)
	if err != nil {
		return cerr.Wrapf(err, "failed to create container %s", opts.ContainerName)
	}
	if err := cli.ContainerStart(rc.Ctx, resp.ID, container.StartOptions{}); err != nil {
		return cerr.Wrapf(err, "failed to start container %s", opts.ContainerName)
	}

	logger.Info("Webserver container started",
		zap.String("container", opts.ContainerName),
		zap.String("id", resp.ID[:12]),
		zap.Int("http_port", opts.HTTPPort))
	return nil
}

// containerConfig builds the create request. Split out so tests can assert
// port bindings without a daemon.
func containerConfig(opts DeployOptions) (*container.Config, *container.HostConfig) {
	portSet := nat.PortSet{}
	portMap := nat.PortMap{}

	bind := func(hostPort int, containerPort string) {
		p := nat.Port(containerPort + "/tcp")
		portSet[p] = struct{}{}
		portMap[p] = []nat.PortBinding{{HostPort: fmt.Sprintf("%d", hostPort)}}
	}
	bind(opts.HTTPPort, "80")

	var binds []string
	if opts.EnableHTTPS {
		bind(opts.HTTPSPort, "443")
		binds = append(binds, opts.TLSDir+":/etc/nginx/tls:ro")
	}

	contCfg := &container.Config{
		Image:        opts.Image,
		ExposedPorts: portSet,
		Labels:       map[string]string{"managed-by": "groundwork"},
	}
	hostCfg := &container.HostConfig{
		PortBindings: portMap,
		Binds:        binds,
		RestartPolicy: container.RestartPolicy{
			Name: container.RestartPolicyUnlessStopped,
		},
	}
	return contCfg, hostCfg
}

func findContainer(rc *gw_io.RuntimeContext, cli *client.Client, name string) (*types.Container, error) {
	containers, err := cli.ContainerList(rc.Ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", "^/"+name+"$")),
	})
	if err != nil {
		return nil, cerr.Wrap(err, "failed to list containers")
	}
	if len(containers) == 0 {
		return nil, nil
	}
	return &containers[0], nil
}

func pullImage(rc *gw_io.RuntimeContext, cli *client.Client, imageName string) error {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Info("Pulling webserver image", zap.String("image", imageName))

	reader, err := cli.ImagePull(rc.Ctx, imageName, image.PullOptions{})
	if err != nil {
		return cerr.Wrapf(err, "failed to pull image %s", imageName)
	}
	defer reader.Close()

	// Pull happens server-side; the stream must be drained for completion.
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return cerr.Wrapf(err, "failed reading pull progress for %s", imageName)
	}
	return nil
}

// Remove tears down the managed webserver container if present.
func Remove(rc *gw_io.RuntimeContext, name string) error {
	logger := otelzap.Ctx(rc.Ctx)

	cli, err := NewDockerClient()
	if err != nil {
		return cerr.Wrap(err, "failed to create docker client")
	}
	defer cli.Close()

	existing, err := findContainer(rc, cli, name)
	if err != nil {
		return err
	}
	if existing == nil {
		logger.Info("Webserver container not found, nothing to remove", zap.String("container", name))
		return nil
	}
	if err := cli.ContainerRemove(rc.Ctx, existing.ID, container.RemoveOptions{Force: true}); err != nil {
		return cerr.Wrapf(err, "failed to remove container %s", name)
	}
	logger.Info("Webserver container removed", zap.String("container", name))
	return nil
}
