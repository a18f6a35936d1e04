package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
	"github.com/w-h-a/demo/storer"
	getsafe "github.com/w-h-a/demo/util/get_safe"
)

const defaultLocation = "localhost:6334"

type qdrantStorer struct {
	options storer.Options
	client  *qdrant.Client
}

func (s *qdrantStorer) CreateCollection(ctx context.Context, name string) error {
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	if err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.options.VectorSize),
			Distance: qdrant.Distance_Cosine,
		}),
	}); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	return nil
}

func (s *qdrantStorer) DeleteCollection(ctx context.Context, name string) error {
	if err := s.ensureCollection(ctx, name); err != nil {
		return err
	}

	return s.client.DeleteCollection(ctx, name)
}

func (s *qdrantStorer) Add(ctx context.Context, name string, records []storer.Record) error {
	if err := s.ensureCollection(ctx, name); err != nil {
		return err
	}

	if len(records) == 0 {
		return nil
	}

	ids := make([]*qdrant.PointId, 0, len(records))
	for _, rec := range records {
		ids = append(ids, pointId(rec.Id))
	}

	found, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: name,
		Ids:            ids,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return err
	}

	existing := make(map[string]struct{}, len(found))
	for _, point := range found {
		existing[getsafe.String(convertPayload(point.GetPayload()), payloadId)] = struct{}{}
	}

	if err := storer.CheckUnique(records, func(id string) bool {
		_, ok := existing[id]
		return ok
	}); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, 0, len(records))
	for _, rec := range records {
		metadata := make(map[string]any, len(rec.Metadata))
		for k, v := range rec.Metadata {
			metadata[k] = v
		}

		payload, err := qdrant.TryValueMap(map[string]any{
			payloadId:       rec.Id,
			payloadDocument: rec.Document,
			payloadMetadata: metadata,
		})
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      pointId(rec.Id),
			Vectors: qdrant.NewVectors(rec.Embedding...),
			Payload: payload,
		})
	}

	wait := true

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: name,
		Wait:           &wait,
		Points:         points,
	})

	return err
}

func (s *qdrantStorer) Search(ctx context.Context, name string, vector []float32, limit int) ([]storer.Record, error) {
	if limit < 1 {
		return nil, nil
	}

	if err := s.ensureCollection(ctx, name); err != nil {
		return nil, err
	}

	k := uint64(limit)

	rsp, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: name,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &k,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	records := make([]storer.Record, 0, len(rsp))

	for _, point := range rsp {
		payload := convertPayload(point.GetPayload())

		records = append(records, storer.Record{
			Id:       getsafe.String(payload, payloadId),
			Document: getsafe.String(payload, payloadDocument),
			Metadata: getsafe.StringMap(payload, payloadMetadata),
			Distance: 1 - point.GetScore(),
		})
	}

	return records, nil
}

func (s *qdrantStorer) Count(ctx context.Context, name string) (int, error) {
	if err := s.ensureCollection(ctx, name); err != nil {
		return 0, err
	}

	exact := true

	n, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: name,
		Exact:          &exact,
	})
	if err != nil {
		return 0, err
	}

	return int(n), nil
}

func (s *qdrantStorer) Close() error {
	return s.client.Close()
}

func (s *qdrantStorer) ensureCollection(ctx context.Context, name string) error {
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", storer.ErrCollectionNotFound, name)
	}

	return nil
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = defaultLocation
	}

	if options.VectorSize <= 0 {
		panic("missing vector size for qdrant storer")
	}

	host, portStr, err := net.SplitHostPort(options.Location)
	if err != nil {
		detail := "invalid location for qdrant storer"
		slog.ErrorContext(options.Context, detail, "location", options.Location, "error", err)
		panic(detail)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		detail := "invalid port for qdrant storer"
		slog.ErrorContext(options.Context, detail, "location", options.Location, "error", err)
		panic(detail)
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: options.ApiKey,
	})
	if err != nil {
		detail := "failed to connect with qdrant storer"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	return &qdrantStorer{
		options: options,
		client:  client,
	}
}
