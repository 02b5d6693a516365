// Package catalogclient is the concrete resolver.Catalog that talks to the
// remote mod registry, the out-of-core-scope collaborator resolver.Catalog
// is stubbed against. It dials over gRPC the way the retrieval pack's own
// module-to-module control plane does (grpc.NewClient +
// insecure.NewCredentials for a private network), but since no .proto
// contract for this registry was generated, each RPC is invoked directly
// against a generic structpb.Struct envelope rather than hand-authored
// protoc-gen-go stubs.
package catalogclient

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mrhid6/SatisfactoryModLauncherAPI/resolver"
)

const (
	methodListMatchingVersions = "/smlcatalog.v1.Catalog/ListMatchingVersions"
	methodGetModMetadata       = "/smlcatalog.v1.Catalog/GetModMetadata"
	methodListLoaderVersions   = "/smlcatalog.v1.Catalog/ListLoaderVersions"
	methodGetLoaderInfo        = "/smlcatalog.v1.Catalog/GetLoaderInfo"
)

// Client is a resolver.Catalog backed by a gRPC connection to the remote
// mod registry.
type Client struct {
	conn *grpc.ClientConn
}

// Dial opens a connection to target (host:port). The connection is
// unencrypted at the transport-credentials layer, matching the pack's own
// intra-cluster module clients; callers needing TLS should dial their own
// *grpc.ClientConn and use NewFromConn instead.
func Dial(target string) (*Client, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial catalog %s: %w", target, err)
	}
	return &Client{conn: conn}, nil
}

// NewFromConn wraps an already-configured *grpc.ClientConn.
func NewFromConn(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(ctx context.Context, method string, req map[string]interface{}) (*structpb.Struct, error) {
	reqStruct, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("encode request for %s: %w", method, err)
	}
	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, method, reqStruct, resp); err != nil {
		return nil, fmt.Errorf("invoke %s: %w", method, err)
	}
	return resp, nil
}

func (c *Client) ListMatchingVersions(ctx context.Context, id string, constraints []string) ([]string, error) {
	cs := make([]interface{}, len(constraints))
	for i, v := range constraints {
		cs[i] = v
	}
	resp, err := c.invoke(ctx, methodListMatchingVersions, map[string]interface{}{
		"id":          id,
		"constraints": cs,
	})
	if err != nil {
		return nil, err
	}
	if errVal, ok := resp.Fields["error"]; ok && errVal.GetStringValue() == "not_found" {
		return nil, &resolver.ModNotFoundError{ID: id}
	}
	versions := resp.Fields["versions"].GetListValue()
	if versions == nil {
		return nil, nil
	}
	out := make([]string, 0, len(versions.Values))
	for _, v := range versions.Values {
		out = append(out, v.GetStringValue())
	}
	return out, nil
}

func (c *Client) GetModMetadata(ctx context.Context, id, version string) (*resolver.ModMeta, error) {
	resp, err := c.invoke(ctx, methodGetModMetadata, map[string]interface{}{
		"id":      id,
		"version": version,
	})
	if err != nil {
		return nil, err
	}
	if errVal, ok := resp.Fields["error"]; ok && errVal.GetStringValue() == "not_found" {
		return nil, &resolver.ModNotFoundError{ID: id, Version: version}
	}

	meta := &resolver.ModMeta{
		ModID:         id,
		Version:       version,
		Dependencies:  map[string]string{},
		LoaderVersion: resp.Fields["loader_version"].GetStringValue(),
	}
	if deps := resp.Fields["dependencies"].GetStructValue(); deps != nil {
		for depID, v := range deps.Fields {
			meta.Dependencies[depID] = v.GetStringValue()
		}
	}
	return meta, nil
}

func (c *Client) ListLoaderVersions(ctx context.Context) ([]resolver.LoaderInfo, error) {
	resp, err := c.invoke(ctx, methodListLoaderVersions, map[string]interface{}{})
	if err != nil {
		return nil, err
	}
	list := resp.Fields["loaders"].GetListValue()
	if list == nil {
		return nil, nil
	}
	out := make([]resolver.LoaderInfo, 0, len(list.Values))
	for _, v := range list.Values {
		s := v.GetStructValue()
		if s == nil {
			continue
		}
		out = append(out, resolver.LoaderInfo{
			Version:     s.Fields["version"].GetStringValue(),
			GameVersion: s.Fields["game_version"].GetStringValue(),
		})
	}
	return out, nil
}

func (c *Client) GetLoaderInfo(ctx context.Context, version string) (*resolver.LoaderInfo, error) {
	resp, err := c.invoke(ctx, methodGetLoaderInfo, map[string]interface{}{
		"version": version,
	})
	if err != nil {
		return nil, err
	}
	if errVal, ok := resp.Fields["error"]; ok && errVal.GetStringValue() == "not_found" {
		return nil, nil
	}
	return &resolver.LoaderInfo{
		Version:     version,
		GameVersion: resp.Fields["game_version"].GetStringValue(),
	}, nil
}

var _ resolver.Catalog = (*Client)(nil)
