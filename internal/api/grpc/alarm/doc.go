// Package alarm implements the gRPC transport for the alarm scheduler.
//
// The service is registered by hand with a grpc.ServiceDesc and carries
// protobuf well-known types (google.protobuf.Struct and Empty), so neither
// the server nor its clients need generated code. Wire helpers convert
// between those messages and the domain/scheduler types.
package alarm
