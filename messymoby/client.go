// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package messymoby

import (
	"context"

	"github.com/docker/docker/client"

	gi "github.com/onsi/ginkgo/v2"
	s "github.com/thediveo/success"
)

// MessyMobyLabel is the name of a “magic” label for tagging test containers
// and networks.
const MessyMobyLabel = "messymoby"

// NewClient returns a new Docker client connected to the default socket API
// location on the local host.
func NewClient() *client.Client {
	gi.GinkgoHelper()

	return s.Successful(client.NewClientWithOpts(
		client.WithHost("unix:///var/run/docker.sock"),
		client.WithAPIVersionNegotiation(),
	))
}

// Available returns true if the Docker daemon answers.
func Available(ctx context.Context, cln *client.Client) bool {
	_, err := cln.Ping(ctx)
	return err == nil
}

// Cleanup removes all test containers and then all test networks.
func Cleanup(ctx context.Context, cln *client.Client) {
	_ = RemoveTestContainers(ctx, cln, MessyMobyLabel)
	_ = RemoveTestNetworks(ctx, cln, MessyMobyLabel)
}
