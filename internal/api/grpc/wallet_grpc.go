package grpc

import (
	context "context"

	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
)

const (
	Wallet_GetBalance_FullMethodName  = "/loyalty.Wallet/GetBalance"
	Wallet_GetTnx_FullMethodName      = "/loyalty.Wallet/GetTnx"
	Wallet_GetEligible_FullMethodName = "/loyalty.Wallet/GetEligible"
)

type BalanceRequest struct {
	User string `json:"user"`
}

type BalanceResponse struct {
	Coins int64 `json:"coins"`
}

type TnxRequest struct {
	User     string `json:"user"`
	Datefrom string `json:"datefrom,omitempty"` // 2006-01-02
	Dateto   string `json:"dateto,omitempty"`
}

type TnxMessage struct {
	UUID      string `json:"uuid"`
	Type      string `json:"type"`
	Coins     int64  `json:"coins"`
	Order     string `json:"order,omitempty"`
	Product   string `json:"product,omitempty"`
	CreatedAt string `json:"createdAt"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

type TnxResponse struct {
	Tnx []*TnxMessage `json:"tnx"`
}

type EligibleRequest struct {
	User string `json:"user"`
}

type EligibleProduct struct {
	Product string `json:"product"`
	Coins   int64  `json:"coins"`
}

type EligibleResponse struct {
	Products []*EligibleProduct `json:"products"`
}

type WalletClient interface {
	GetBalance(ctx context.Context, in *BalanceRequest, opts ...grpc.CallOption) (*BalanceResponse, error)
	GetTnx(ctx context.Context, in *TnxRequest, opts ...grpc.CallOption) (*TnxResponse, error)
	GetEligible(ctx context.Context, in *EligibleRequest, opts ...grpc.CallOption) (*EligibleResponse, error)
}

type walletClient struct {
	cc grpc.ClientConnInterface
}

func NewWalletClient(cc grpc.ClientConnInterface) WalletClient {
	return &walletClient{cc}
}

func (c *walletClient) GetBalance(ctx context.Context, in *BalanceRequest, opts ...grpc.CallOption) (*BalanceResponse, error) {
	out := new(BalanceResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, Wallet_GetBalance_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *walletClient) GetTnx(ctx context.Context, in *TnxRequest, opts ...grpc.CallOption) (*TnxResponse, error) {
	out := new(TnxResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, Wallet_GetTnx_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *walletClient) GetEligible(ctx context.Context, in *EligibleRequest, opts ...grpc.CallOption) (*EligibleResponse, error) {
	out := new(EligibleResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, Wallet_GetEligible_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type WalletServer interface {
	GetBalance(context.Context, *BalanceRequest) (*BalanceResponse, error)
	GetTnx(context.Context, *TnxRequest) (*TnxResponse, error)
	GetEligible(context.Context, *EligibleRequest) (*EligibleResponse, error)
}

type UnimplementedWalletServer struct{}

func (UnimplementedWalletServer) GetBalance(context.Context, *BalanceRequest) (*BalanceResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetBalance not implemented")
}
func (UnimplementedWalletServer) GetTnx(context.Context, *TnxRequest) (*TnxResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetTnx not implemented")
}
func (UnimplementedWalletServer) GetEligible(context.Context, *EligibleRequest) (*EligibleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetEligible not implemented")
}

func RegisterWalletServer(s grpc.ServiceRegistrar, srv WalletServer) {
	s.RegisterService(&Wallet_ServiceDesc, srv)
}

func _Wallet_GetBalance_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(BalanceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WalletServer).GetBalance(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Wallet_GetBalance_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WalletServer).GetBalance(ctx, req.(*BalanceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Wallet_GetTnx_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(TnxRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WalletServer).GetTnx(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Wallet_GetTnx_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WalletServer).GetTnx(ctx, req.(*TnxRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Wallet_GetEligible_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(EligibleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WalletServer).GetEligible(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Wallet_GetEligible_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WalletServer).GetEligible(ctx, req.(*EligibleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var Wallet_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "loyalty.Wallet",
	HandlerType: (*WalletServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetBalance", Handler: _Wallet_GetBalance_Handler},
		{MethodName: "GetTnx", Handler: _Wallet_GetTnx_Handler},
		{MethodName: "GetEligible", Handler: _Wallet_GetEligible_Handler},
	},
	Streams: []grpc.StreamDesc{},
}
