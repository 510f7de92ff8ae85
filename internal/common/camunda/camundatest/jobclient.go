// Package camundatest provides a worker.JobClient that records the commands
// a job handler sends instead of talking to a gateway.
package camundatest

import (
	"context"
	"sync"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"google.golang.org/grpc"
)

// JobClient builds the client's real commands on a recording gateway.
type JobClient struct {
	mu        sync.Mutex
	completed []*pb.CompleteJobRequest
	failed    []*pb.FailJobRequest
	thrown    []*pb.ThrowErrorRequest
}

var _ worker.JobClient = (*JobClient)(nil)

func NewJobClient() *JobClient {
	return &JobClient{}
}

func noRetry(context.Context, error) bool { return false }

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(gateway{c: c}, noRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(gateway{c: c}, noRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(gateway{c: c}, noRetry)
}

func (c *JobClient) Completed() []*pb.CompleteJobRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*pb.CompleteJobRequest(nil), c.completed...)
}

func (c *JobClient) Failed() []*pb.FailJobRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*pb.FailJobRequest(nil), c.failed...)
}

func (c *JobClient) Thrown() []*pb.ThrowErrorRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*pb.ThrowErrorRequest(nil), c.thrown...)
}

// gateway implements only the job commands; any other call panics on the
// nil embedded client.
type gateway struct {
	pb.GatewayClient
	c *JobClient
}

func (g gateway) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.c.mu.Lock()
	defer g.c.mu.Unlock()
	g.c.completed = append(g.c.completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (g gateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.c.mu.Lock()
	defer g.c.mu.Unlock()
	g.c.failed = append(g.c.failed, in)
	return &pb.FailJobResponse{}, nil
}

func (g gateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.c.mu.Lock()
	defer g.c.mu.Unlock()
	g.c.thrown = append(g.c.thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}
