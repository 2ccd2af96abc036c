package storage

import (
	"context"
	"encoding/json"
	"os"
	"sync"
)

// FileStorage keeps every collection in one JSON file and serves the
// whole-collection read/replace contract the progression engine expects.
// Each read reloads the file and each write rewrites it, so concurrent
// writers are last-write-wins; the engine's idempotence makes that race
// benign (a losing writer reproduces the same history the winner wrote).
type FileStorage struct {
	filePath string
	mu       sync.Mutex
	data     *fileData
}

type fileData struct {
	Orders  map[string][]Order         `json:"orders"`
	Returns map[string][]ReturnRequest `json:"returns"`
}

func NewFileStorage(filePath string) (*FileStorage, error) {
	fs := &FileStorage{
		filePath: filePath,
		data:     newFileData(),
	}
	return fs, fs.load()
}

func newFileData() *fileData {
	return &fileData{
		Orders:  make(map[string][]Order),
		Returns: make(map[string][]ReturnRequest),
	}
}

func (fs *FileStorage) load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	file, err := os.Open(fs.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	data := newFileData()
	if err := json.NewDecoder(file).Decode(data); err != nil {
		return err
	}
	if data.Orders == nil {
		data.Orders = make(map[string][]Order)
	}
	if data.Returns == nil {
		data.Returns = make(map[string][]ReturnRequest)
	}
	fs.data = data
	return nil
}

func (fs *FileStorage) save() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	file, err := os.Create(fs.filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(fs.data)
}

func (fs *FileStorage) ReadOrders(ctx context.Context) (map[string][]Order, error) {
	if err := fs.load(); err != nil {
		return nil, err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.data.Orders, nil
}

func (fs *FileStorage) WriteOrders(ctx context.Context, orders map[string][]Order) error {
	fs.mu.Lock()
	fs.data.Orders = orders
	fs.mu.Unlock()
	return fs.save()
}

func (fs *FileStorage) ReadReturns(ctx context.Context) (map[string][]ReturnRequest, error) {
	if err := fs.load(); err != nil {
		return nil, err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.data.Returns, nil
}

func (fs *FileStorage) WriteReturns(ctx context.Context, returns map[string][]ReturnRequest) error {
	fs.mu.Lock()
	fs.data.Returns = returns
	fs.mu.Unlock()
	return fs.save()
}
