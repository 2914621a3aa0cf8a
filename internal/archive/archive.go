package archive

import "fmt"

// Extract parses an info+data pair into its entry table and payload bytes.
// The table keeps on-disk order; any failure aborts the whole operation.
func Extract(infoBytes, dataBytes []byte) (*Table, map[string][]byte, error) {
	table, err := ParseInfo(infoBytes, uint32(len(dataBytes)))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing info file: %w", err)
	}

	payloads, err := ReadAll(dataBytes, table)
	if err != nil {
		return nil, nil, fmt.Errorf("reading payloads: %w", err)
	}

	return table, payloads, nil
}

// Build lays out payloads into a fresh data file and serializes the matching
// info file. Both buffers are fully constructed in memory; nothing touches
// disk here, so a failure never leaves a half-written pair behind.
func Build(payloads []Payload, alignment uint32) (infoBytes, dataBytes []byte, err error) {
	dataBytes, table := WriteAll(payloads, alignment)

	if err := table.Validate(uint32(len(dataBytes))); err != nil {
		return nil, nil, fmt.Errorf("validating recomputed layout: %w", err)
	}

	infoBytes, err = SerializeInfo(table)
	if err != nil {
		return nil, nil, fmt.Errorf("serializing info file: %w", err)
	}

	return infoBytes, dataBytes, nil
}
