package qdrant

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"qabot/internal/domain"
)

// Storage keeps record vectors in a Qdrant collection over gRPC.
// The collection is recreated by Init so it always mirrors the loaded dataset.
type Storage struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	dimension   int
	size        int
}

type Config struct {
	Addr       string
	Collection string
}

// NewStorage connects lazily to the Qdrant gRPC endpoint at cfg.Addr.
func NewStorage(cfg Config) (*Storage, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6334"
	}
	if cfg.Collection == "" {
		cfg.Collection = "qabot"
	}
	conn, err := grpc.NewClient(cfg.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant: dial %s: %w", cfg.Addr, err)
	}
	return newStorage(conn, cfg.Collection), nil
}

func newStorage(conn *grpc.ClientConn, collection string) *Storage {
	return &Storage{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}
}

func (s *Storage) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.dimension = dimension
	if err := s.Clear(ctx); err != nil {
		return err
	}
	_, err := s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dimension),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection %s: %w", s.collection, err)
	}
	s.size = 0
	return nil
}

func (s *Storage) Upsert(ctx context.Context, records []domain.QARecord) error {
	if len(records) == 0 {
		return nil
	}
	points := make([]*pb.PointStruct, len(records))
	for i, r := range records {
		if len(r.Embedding) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
		pos := s.size + i
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: s.pointID(pos)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: toFloat32(r.Embedding)},
				},
			},
			Payload: map[string]*pb.Value{
				"context":  stringValue(r.Context),
				"question": stringValue(r.Question),
				"answer":   stringValue(r.Answer),
				"position": {Kind: &pb.Value_IntegerValue{IntegerValue: int64(pos)}},
			},
		}
	}
	wait := true
	if _, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         points,
	}); err != nil {
		return fmt.Errorf("qdrant: upsert %d points: %w", len(records), err)
	}
	s.size += len(records)
	return nil
}

func (s *Storage) Search(ctx context.Context, vector []float64, topK int) ([]domain.ScoredRecord, error) {
	if topK <= 0 {
		topK = 5
	}
	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         toFloat32(vector),
		Limit:          uint64(topK),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: search: %w", err)
	}
	results := make([]domain.ScoredRecord, 0, len(resp.GetResult()))
	for _, r := range resp.GetResult() {
		payload := r.GetPayload()
		results = append(results, domain.ScoredRecord{
			Record: domain.QARecord{
				Context:  payload["context"].GetStringValue(),
				Question: payload["question"].GetStringValue(),
				Answer:   payload["answer"].GetStringValue(),
			},
			Position: int(payload["position"].GetIntegerValue()),
			Score:    float64(r.GetScore()),
		})
	}
	return results, nil
}

// Clear drops the collection if it exists.
func (s *Storage) Clear(ctx context.Context) error {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("qdrant: list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() != s.collection {
			continue
		}
		if _, err := s.collections.Delete(ctx, &pb.DeleteCollection{CollectionName: s.collection}); err != nil {
			return fmt.Errorf("qdrant: delete collection %s: %w", s.collection, err)
		}
	}
	s.size = 0
	return nil
}

// Close closes the underlying gRPC connection.
func (s *Storage) Close() error {
	return s.conn.Close()
}

// pointID derives a stable UUID for the record at pos within the collection.
func (s *Storage) pointID(pos int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(s.collection+"/"+strconv.Itoa(pos))).String()
}

func stringValue(v string) *pb.Value {
	return &pb.Value{Kind: &pb.Value_StringValue{StringValue: v}}
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
