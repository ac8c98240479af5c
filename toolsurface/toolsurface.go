// Package toolsurface implements the six-operation tool boundary (§4.8):
// line-delimited JSON requests read from stdin, one JSON response per line
// written to stdout. All logging goes to stderr so stdout stays reserved
// for protocol messages.
package toolsurface

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/localrag/go-localrag/ingest"
	"github.com/localrag/go-localrag/query"
	"github.com/localrag/go-localrag/ragerr"
	"github.com/localrag/go-localrag/rawdata"
	"github.com/localrag/go-localrag/schema"
)

// Store is the subset of vectorstore.Store the tool surface depends on
// directly (ingestion and query go through their own coordinators).
type Store interface {
	ListFiles() []schema.FileListing
	Status() schema.Status
	DeleteChunks(ctx context.Context, filePath string) error
}

// Surface wires the ingest and query coordinators and the store behind the
// six tool operations.
type Surface struct {
	Ingest *ingest.Coordinator
	Query  *query.Coordinator
	Store  Store
	DBDir  string
}

type request struct {
	Tool string          `json:"tool"`
	Args json.RawMessage `json:"args"`
}

type response struct {
	Result interface{} `json:"result,omitempty"`
	Error  *errorBody  `json:"error,omitempty"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Run reads one request per line from r and writes one response per line
// to w, until r is exhausted. Each line is handled independently; a
// malformed line yields an error response rather than aborting the loop.
func (s *Surface) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := enc.Encode(s.handleLine(ctx, line)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *Surface) handleLine(ctx context.Context, line []byte) response {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		return errorResponse(ragerr.New(ragerr.Validation, "malformed request: "+err.Error()))
	}

	result, err := s.dispatch(ctx, req)
	if err != nil {
		return errorResponse(err)
	}
	return response{Result: result}
}

func (s *Surface) dispatch(ctx context.Context, req request) (interface{}, error) {
	switch req.Tool {
	case "ingest_file":
		return s.ingestFile(ctx, req.Args)
	case "ingest_data":
		return s.ingestData(ctx, req.Args)
	case "query_documents":
		return s.queryDocuments(ctx, req.Args)
	case "list_files":
		return s.listFiles(ctx)
	case "delete_file":
		return s.deleteFile(ctx, req.Args)
	case "status":
		return s.status(ctx)
	default:
		return nil, ragerr.New(ragerr.Validation, "unknown tool: "+req.Tool)
	}
}

func errorResponse(err error) response {
	kind := string(ragerr.Validation)
	var e *ragerr.Error
	if asErr, ok := err.(*ragerr.Error); ok {
		e = asErr
		kind = string(e.Kind)
	}
	return response{Error: &errorBody{Kind: kind, Message: err.Error()}}
}

type ingestFileArgs struct {
	FilePath string `json:"filePath"`
}

type ingestOutcome struct {
	FilePath   string    `json:"filePath"`
	ChunkCount int       `json:"chunkCount"`
	Timestamp  time.Time `json:"timestamp"`
}

func (s *Surface) ingestFile(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	var args ingestFileArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, ragerr.New(ragerr.Validation, "invalid ingest_file arguments")
	}
	out, err := s.Ingest.IngestFile(ctx, args.FilePath)
	if err != nil {
		return nil, err
	}
	return ingestOutcome{FilePath: out.FilePath, ChunkCount: out.ChunkCount, Timestamp: out.Timestamp}, nil
}

type ingestDataArgs struct {
	Content  string `json:"content"`
	Metadata struct {
		Source string `json:"source"`
		Format string `json:"format"`
	} `json:"metadata"`
}

func (s *Surface) ingestData(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	var args ingestDataArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, ragerr.New(ragerr.Validation, "invalid ingest_data arguments")
	}
	out, err := s.Ingest.IngestData(ctx, args.Content, args.Metadata.Source, args.Metadata.Format)
	if err != nil {
		return nil, err
	}
	return ingestOutcome{FilePath: out.FilePath, ChunkCount: out.ChunkCount, Timestamp: out.Timestamp}, nil
}

type queryDocumentsArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Surface) queryDocuments(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	var args queryDocumentsArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, ragerr.New(ragerr.Validation, "invalid query_documents arguments")
	}
	return s.Query.QueryDocuments(ctx, args.Query, args.Limit)
}

func (s *Surface) listFiles(ctx context.Context) (interface{}, error) {
	entries := s.Store.ListFiles()
	for i := range entries {
		if source, ok := rawdata.IsRawDataPath(s.DBDir, entries[i].FilePath); ok {
			entries[i].Source = &source
		}
	}
	return entries, nil
}

type deleteFileArgs struct {
	FilePath string `json:"filePath"`
	Source   string `json:"source"`
}

type deleteFileResult struct {
	FilePath  string    `json:"filePath"`
	Deleted   bool      `json:"deleted"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Surface) deleteFile(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	var args deleteFileArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, ragerr.New(ragerr.Validation, "invalid delete_file arguments")
	}
	if args.FilePath == "" && args.Source == "" {
		return nil, ragerr.New(ragerr.Validation, "delete_file requires filePath or source")
	}

	filePath := args.FilePath
	if filePath == "" {
		filePath = rawdata.Path(s.DBDir, rawdata.NormalizeSource(args.Source))
	}

	if err := s.Store.DeleteChunks(ctx, filePath); err != nil {
		return nil, err
	}

	if _, ok := rawdata.IsRawDataPath(s.DBDir, filePath); ok {
		removeRawDataFile(filePath)
	}

	return deleteFileResult{FilePath: filePath, Deleted: true, Timestamp: time.Now()}, nil
}

func (s *Surface) status(ctx context.Context) (interface{}, error) {
	return s.Store.Status(), nil
}
