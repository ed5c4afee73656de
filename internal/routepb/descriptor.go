// Package routepb holds the wire contract of the remote route optimization service.
//
// The schema mirrors route_optimization.proto. It is assembled at init time from
// descriptorpb values so messages can be encoded with dynamicpb, which keeps the
// wire format byte-compatible with the service without a protoc step.
package routepb

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

const (
	protoFile    = "route_optimization.proto"
	protoPackage = "route.optimization"

	// ServiceName is the fully qualified gRPC service name.
	ServiceName = protoPackage + ".RouteOptimizationService"

	MethodSubmitOptimization = "SubmitOptimization"
	MethodGetJobStatus       = "GetJobStatus"
	MethodGetJobResult       = "GetJobResult"
	MethodHealthCheck        = "HealthCheck"
)

const (
	msgLocation                   = "Location"
	msgPOI                        = "POI"
	msgRoutePreferences           = "RoutePreferences"
	msgRouteConstraints           = "RouteConstraints"
	msgRouteOptimizationRequest   = "RouteOptimizationRequest"
	msgOptimizedPOI               = "OptimizedPOI"
	msgOptimizationResults        = "OptimizationResults"
	msgSubmitOptimizationResponse = "SubmitOptimizationResponse"
	msgJobStatusRequest           = "JobStatusRequest"
	msgJobStatusResponse          = "JobStatusResponse"
	msgJobResultRequest           = "JobResultRequest"
	msgJobResultResponse          = "JobResultResponse"
	msgHealthRequest              = "HealthRequest"
	msgHealthResponse             = "HealthResponse"
)

var fileDescriptor = mustBuildFile()

// FullMethod returns the invocation path for a method of the service.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func mustBuildFile() protoreflect.FileDescriptor {
	fd, err := protodesc.NewFile(fileProto(), new(protoregistry.Files))
	if err != nil {
		panic(fmt.Sprintf("routepb: build %s: %v", protoFile, err))
	}
	return fd
}

func messageDescriptor(name string) protoreflect.MessageDescriptor {
	md := fileDescriptor.Messages().ByName(protoreflect.Name(name))
	if md == nil {
		panic("routepb: unknown message " + name)
	}
	return md
}

type fieldKind = descriptorpb.FieldDescriptorProto_Type

const (
	kindString  = descriptorpb.FieldDescriptorProto_TYPE_STRING
	kindInt32   = descriptorpb.FieldDescriptorProto_TYPE_INT32
	kindInt64   = descriptorpb.FieldDescriptorProto_TYPE_INT64
	kindDouble  = descriptorpb.FieldDescriptorProto_TYPE_DOUBLE
	kindBool    = descriptorpb.FieldDescriptorProto_TYPE_BOOL
	kindMessage = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
)

func scalar(name string, number int32, kind fieldKind) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   kind.Enum(),
	}
}

func repeatedScalar(name string, number int32, kind fieldKind) *descriptorpb.FieldDescriptorProto {
	f := scalar(name, number, kind)
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

func message(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := scalar(name, number, kindMessage)
	f.TypeName = proto.String("." + protoPackage + "." + typeName)
	return f
}

func repeatedMessage(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := message(name, number, typeName)
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

func messageType(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func method(name, in, out string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String("." + protoPackage + "." + in),
		OutputType: proto.String("." + protoPackage + "." + out),
	}
}

func fileProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(protoFile),
		Package: proto.String(protoPackage),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			messageType(msgLocation,
				scalar("latitude", 1, kindDouble),
				scalar("longitude", 2, kindDouble),
				scalar("address", 3, kindString),
			),
			messageType(msgPOI,
				scalar("id", 1, kindInt64),
				scalar("name", 2, kindString),
				scalar("latitude", 3, kindDouble),
				scalar("longitude", 4, kindDouble),
				scalar("category", 5, kindString),
				scalar("subcategory", 6, kindString),
				scalar("visit_duration", 7, kindInt32),
				scalar("cost", 8, kindDouble),
				scalar("rating", 9, kindDouble),
				scalar("description", 10, kindString),
				scalar("accessibility", 11, kindBool),
				scalar("provider_id", 12, kindInt64),
				scalar("provider_name", 13, kindString),
			),
			messageType(msgRoutePreferences,
				scalar("optimize_for", 1, kindString),
				scalar("max_total_time", 2, kindInt32),
				scalar("max_total_cost", 3, kindDouble),
				repeatedScalar("preferred_categories", 4, kindString),
				repeatedScalar("avoid_categories", 5, kindString),
				scalar("accessibility_required", 6, kindBool),
			),
			messageType(msgRouteConstraints,
				message("start_location", 1, msgLocation),
				message("end_location", 2, msgLocation),
				scalar("start_time", 3, kindString),
				scalar("lunch_break_required", 4, kindBool),
				scalar("lunch_break_duration", 5, kindInt32),
			),
			messageType(msgRouteOptimizationRequest,
				scalar("route_id", 1, kindString),
				scalar("user_id", 2, kindString),
				repeatedMessage("pois", 3, msgPOI),
				message("preferences", 4, msgRoutePreferences),
				message("constraints", 5, msgRouteConstraints),
			),
			messageType(msgOptimizedPOI,
				scalar("poi_id", 1, kindInt64),
				scalar("poi_name", 2, kindString),
				scalar("latitude", 3, kindDouble),
				scalar("longitude", 4, kindDouble),
				scalar("visit_order", 5, kindInt32),
				scalar("estimated_visit_time", 6, kindInt32),
				scalar("arrival_time", 7, kindString),
				scalar("departure_time", 8, kindString),
			),
			messageType(msgOptimizationResults,
				scalar("total_distance_km", 1, kindDouble),
				scalar("total_time_minutes", 2, kindInt32),
				scalar("optimization_score", 3, kindDouble),
				repeatedMessage("optimized_sequence", 4, msgOptimizedPOI),
			),
			messageType(msgSubmitOptimizationResponse,
				scalar("success", 1, kindBool),
				scalar("status", 2, kindString),
				scalar("job_id", 3, kindString),
				scalar("message", 4, kindString),
				scalar("queue_position", 5, kindInt32),
				scalar("route_id", 6, kindString),
				message("results", 7, msgOptimizationResults),
			),
			messageType(msgJobStatusRequest,
				scalar("job_id", 1, kindString),
			),
			messageType(msgJobStatusResponse,
				scalar("job_id", 1, kindString),
				scalar("status", 2, kindString),
				scalar("progress", 3, kindInt32),
				scalar("message", 4, kindString),
			),
			messageType(msgJobResultRequest,
				scalar("job_id", 1, kindString),
			),
			messageType(msgJobResultResponse,
				scalar("success", 1, kindBool),
				scalar("job_id", 2, kindString),
				scalar("message", 3, kindString),
				message("results", 4, msgOptimizationResults),
			),
			messageType(msgHealthRequest,
				scalar("service_name", 1, kindString),
			),
			messageType(msgHealthResponse,
				scalar("is_healthy", 1, kindBool),
				scalar("status", 2, kindString),
				scalar("version", 3, kindString),
			),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{
			{
				Name: proto.String("RouteOptimizationService"),
				Method: []*descriptorpb.MethodDescriptorProto{
					method(MethodSubmitOptimization, msgRouteOptimizationRequest, msgSubmitOptimizationResponse),
					method(MethodGetJobStatus, msgJobStatusRequest, msgJobStatusResponse),
					method(MethodGetJobResult, msgJobResultRequest, msgJobResultResponse),
					method(MethodHealthCheck, msgHealthRequest, msgHealthResponse),
				},
			},
		},
	}
}
