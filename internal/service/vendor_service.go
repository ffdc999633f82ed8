package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/henrysammarfo/tapngo/internal/directory"
	"github.com/henrysammarfo/tapngo/pkg/api"
)

// VendorService implements the VendorService RPC interface.
type VendorService struct {
	dir *directory.Directory
}

// NewVendorService creates a new vendor service backed by dir.
func NewVendorService(dir *directory.Directory) *VendorService {
	return &VendorService{dir: dir}
}

// ResolveRecipient maps an address or vendor name to the address it pays.
func (s *VendorService) ResolveRecipient(ctx context.Context, req *connect.Request[api.ResolveRecipientRequest]) (*connect.Response[api.ResolveRecipientResponse], error) {
	r, err := s.dir.Resolve(ctx, req.Msg.Identifier)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	eligible := false
	if r.IsVendor {
		if eligible, err = s.dir.IsActiveVendor(ctx, r.Address); err != nil {
			return nil, toConnectError(req.Spec().Procedure, err)
		}
	}

	return connect.NewResponse(&api.ResolveRecipientResponse{
		Address:    r.Address.Hex(),
		Identifier: r.Identifier,
		IsVendor:   r.IsVendor,
		Eligible:   eligible,
	}), nil
}

func (s *VendorService) RegisterVendor(ctx context.Context, req *connect.Request[api.RegisterVendorRequest]) (*connect.Response[api.RegisterVendorResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	addr, err := parseAddress("address", req.Msg.Address)
	if err != nil {
		return nil, err
	}

	v, err := s.dir.Register(ctx, caller, addr, req.Msg.Identifier)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&api.RegisterVendorResponse{Vendor: toAPIVendor(v)}), nil
}

func (s *VendorService) SetVendorStatus(ctx context.Context, req *connect.Request[api.SetVendorStatusRequest]) (*connect.Response[api.SetVendorStatusResponse], error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	addr, err := parseAddress("address", req.Msg.Address)
	if err != nil {
		return nil, err
	}

	v, err := s.dir.SetStatus(ctx, caller, addr, req.Msg.Verified, req.Msg.Active)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&api.SetVendorStatusResponse{Vendor: toAPIVendor(v)}), nil
}
