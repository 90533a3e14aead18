package database

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
)

const restoreBatchSize = 1000

// DumpCollection writes every document of a collection to w as canonical
// Extended JSON, one document per line
func (m *MongoDB) DumpCollection(ctx context.Context, name string, w io.Writer) (int, error) {
	ctx, cancel := WithVeryLongTimeout(ctx)
	defer cancel()

	cursor, err := m.GetCollection(name).Find(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to find documents: %w", err)
	}
	defer cursor.Close(ctx)

	count := 0
	for cursor.Next(ctx) {
		line, err := bson.MarshalExtJSON(cursor.Current, true, false)
		if err != nil {
			return count, fmt.Errorf("failed to encode document: %w", err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return count, fmt.Errorf("failed to write document: %w", err)
		}
		count++
	}
	if err := cursor.Err(); err != nil {
		return count, fmt.Errorf("cursor error: %w", err)
	}
	return count, nil
}

// RestoreCollection replaces a collection's contents with the documents read
// from r in the DumpCollection format
func (m *MongoDB) RestoreCollection(ctx context.Context, name string, r io.Reader) (int, error) {
	ctx, cancel := WithVeryLongTimeout(ctx)
	defer cancel()

	collection := m.GetCollection(name)
	m.logger.Warnf("Clearing collection %s before restore", name)
	if _, err := collection.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, fmt.Errorf("failed to clear collection: %w", err)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	count := 0
	batch := make([]interface{}, 0, restoreBatchSize)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var doc bson.D
		if err := bson.UnmarshalExtJSON(scanner.Bytes(), true, &doc); err != nil {
			return count, fmt.Errorf("failed to decode document %d: %w", count+1, err)
		}
		batch = append(batch, doc)
		count++

		if len(batch) >= restoreBatchSize {
			if _, err := collection.InsertMany(ctx, batch); err != nil {
				return count, fmt.Errorf("failed to insert batch: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("failed to read backup: %w", err)
	}

	if len(batch) > 0 {
		if _, err := collection.InsertMany(ctx, batch); err != nil {
			return count, fmt.Errorf("failed to insert final batch: %w", err)
		}
	}
	return count, nil
}
