package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "catalog.v1.ProductService"

const (
	ProductService_GetProduct_FullMethodName       = "/catalog.v1.ProductService/GetProduct"
	ProductService_GetProducts_FullMethodName      = "/catalog.v1.ProductService/GetProducts"
	ProductService_CreateProduct_FullMethodName    = "/catalog.v1.ProductService/CreateProduct"
	ProductService_UpdateProduct_FullMethodName    = "/catalog.v1.ProductService/UpdateProduct"
	ProductService_DeleteProduct_FullMethodName    = "/catalog.v1.ProductService/DeleteProduct"
	ProductService_GetProductStream_FullMethodName = "/catalog.v1.ProductService/GetProductStream"
)

type ProductServiceServer interface {
	GetProduct(context.Context, *GetProductRequest) (*GetProductResponse, error)
	GetProducts(context.Context, *GetProductsRequest) (*GetProductsResponse, error)
	CreateProduct(context.Context, *CreateProductRequest) (*CreateProductResponse, error)
	UpdateProduct(context.Context, *UpdateProductRequest) (*UpdateProductResponse, error)
	DeleteProduct(context.Context, *DeleteProductRequest) (*DeleteProductResponse, error)
	GetProductStream(*GetProductsRequest, ProductService_GetProductStreamServer) error
}

// UnimplementedProductServiceServer can be embedded to satisfy
// ProductServiceServer while only some methods are implemented.
type UnimplementedProductServiceServer struct{}

func (UnimplementedProductServiceServer) GetProduct(context.Context, *GetProductRequest) (*GetProductResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProduct not implemented")
}

func (UnimplementedProductServiceServer) GetProducts(context.Context, *GetProductsRequest) (*GetProductsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProducts not implemented")
}

func (UnimplementedProductServiceServer) CreateProduct(context.Context, *CreateProductRequest) (*CreateProductResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateProduct not implemented")
}

func (UnimplementedProductServiceServer) UpdateProduct(context.Context, *UpdateProductRequest) (*UpdateProductResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateProduct not implemented")
}

func (UnimplementedProductServiceServer) DeleteProduct(context.Context, *DeleteProductRequest) (*DeleteProductResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteProduct not implemented")
}

func (UnimplementedProductServiceServer) GetProductStream(*GetProductsRequest, ProductService_GetProductStreamServer) error {
	return status.Error(codes.Unimplemented, "method GetProductStream not implemented")
}

type ProductService_GetProductStreamServer interface {
	Send(*Product) error
	grpc.ServerStream
}

type productStreamServer struct {
	grpc.ServerStream
}

func (x *productStreamServer) Send(m *Product) error {
	return x.ServerStream.SendMsg(m)
}

func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ProductService_ServiceDesc, srv)
}

func unaryHandler[Req any, Resp any](
	fullMethod string,
	call func(ProductServiceServer, context.Context, *Req) (*Resp, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ProductServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ProductServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func getProductStreamHandler(srv any, stream grpc.ServerStream) error {
	in := new(GetProductsRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(ProductServiceServer).GetProductStream(in, &productStreamServer{stream})
}

var ProductService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetProduct",
			Handler:    unaryHandler(ProductService_GetProduct_FullMethodName, ProductServiceServer.GetProduct),
		},
		{
			MethodName: "GetProducts",
			Handler:    unaryHandler(ProductService_GetProducts_FullMethodName, ProductServiceServer.GetProducts),
		},
		{
			MethodName: "CreateProduct",
			Handler:    unaryHandler(ProductService_CreateProduct_FullMethodName, ProductServiceServer.CreateProduct),
		},
		{
			MethodName: "UpdateProduct",
			Handler:    unaryHandler(ProductService_UpdateProduct_FullMethodName, ProductServiceServer.UpdateProduct),
		},
		{
			MethodName: "DeleteProduct",
			Handler:    unaryHandler(ProductService_DeleteProduct_FullMethodName, ProductServiceServer.DeleteProduct),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "GetProductStream",
			Handler:       getProductStreamHandler,
			ServerStreams: true,
		},
	},
	Metadata: "catalog/v1/product.proto",
}

type ProductServiceClient interface {
	GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*GetProductResponse, error)
	GetProducts(ctx context.Context, in *GetProductsRequest, opts ...grpc.CallOption) (*GetProductsResponse, error)
	CreateProduct(ctx context.Context, in *CreateProductRequest, opts ...grpc.CallOption) (*CreateProductResponse, error)
	UpdateProduct(ctx context.Context, in *UpdateProductRequest, opts ...grpc.CallOption) (*UpdateProductResponse, error)
	DeleteProduct(ctx context.Context, in *DeleteProductRequest, opts ...grpc.CallOption) (*DeleteProductResponse, error)
	GetProductStream(ctx context.Context, in *GetProductsRequest, opts ...grpc.CallOption) (ProductService_GetProductStreamClient, error)
}

type productServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewProductServiceClient(cc grpc.ClientConnInterface) ProductServiceClient {
	return &productServiceClient{cc}
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *productServiceClient) GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*GetProductResponse, error) {
	return invoke[GetProductResponse](ctx, c.cc, ProductService_GetProduct_FullMethodName, in, opts)
}

func (c *productServiceClient) GetProducts(ctx context.Context, in *GetProductsRequest, opts ...grpc.CallOption) (*GetProductsResponse, error) {
	return invoke[GetProductsResponse](ctx, c.cc, ProductService_GetProducts_FullMethodName, in, opts)
}

func (c *productServiceClient) CreateProduct(ctx context.Context, in *CreateProductRequest, opts ...grpc.CallOption) (*CreateProductResponse, error) {
	return invoke[CreateProductResponse](ctx, c.cc, ProductService_CreateProduct_FullMethodName, in, opts)
}

func (c *productServiceClient) UpdateProduct(ctx context.Context, in *UpdateProductRequest, opts ...grpc.CallOption) (*UpdateProductResponse, error) {
	return invoke[UpdateProductResponse](ctx, c.cc, ProductService_UpdateProduct_FullMethodName, in, opts)
}

func (c *productServiceClient) DeleteProduct(ctx context.Context, in *DeleteProductRequest, opts ...grpc.CallOption) (*DeleteProductResponse, error) {
	return invoke[DeleteProductResponse](ctx, c.cc, ProductService_DeleteProduct_FullMethodName, in, opts)
}

func (c *productServiceClient) GetProductStream(ctx context.Context, in *GetProductsRequest, opts ...grpc.CallOption) (ProductService_GetProductStreamClient, error) {
	stream, err := c.cc.NewStream(ctx, &ProductService_ServiceDesc.Streams[0], ProductService_GetProductStream_FullMethodName, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &productStreamClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type ProductService_GetProductStreamClient interface {
	Recv() (*Product, error)
	grpc.ClientStream
}

type productStreamClient struct {
	grpc.ClientStream
}

func (x *productStreamClient) Recv() (*Product, error) {
	m := new(Product)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
