package port

import (
	"fmt"

	"github.com/nobletooth/strand/pkg/list"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/types/known/structpb"
)

// Snapshot renders the full contents of the list as a prototext
// google.protobuf.ListValue, one {index, value} struct per node in chain
// order. The result is self-describing text a client can parse back with any
// protobuf runtime.
func Snapshot(l *list.List) (string, error) {
	entries := l.Collect(nil, true /*allNodes*/)
	values := make([]any, 0, len(entries))
	for _, entry := range entries {
		values = append(values, map[string]any{
			"index": entry.Index,
			"value": entry.Value,
		})
	}
	listValue, err := structpb.NewList(values)
	if err != nil {
		return "", fmt.Errorf("failed to build the snapshot message: %w", err)
	}
	return prototext.MarshalOptions{Multiline: true}.Format(listValue), nil
}
