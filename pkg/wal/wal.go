package wal

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// rw-r--r-- (擁有者讀寫，其他人唯讀)
const FileModeReadOnly fs.FileMode = 0644

// rwxr-xr-x，用於建立 WAL 目錄
const dirMode fs.FileMode = 0755

// WAL 以 JSON Lines 格式寫入的 Write-Ahead Log
// 每次 Write 都會 fsync，Write 回傳成功即代表已落盤。
type WAL struct {
	file *os.File
	path string
	mu   sync.Mutex
}

// NewWAL 開啟或建立一個 WAL 檔案 (必要時建立目錄)
// O_RDWR讀寫模式
// O_APPEND 每次寫入時自動跳到文件末尾
// O_CREATE 如果文件不存在則建立
func NewWAL(path string) (*WAL, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, FileModeReadOnly)
	if err != nil {
		return nil, err
	}
	return &WAL{file: file, path: path}, nil
}

// Path 回傳檔案路徑
func (w *WAL) Path() string {
	return w.path
}

// Write 寫入一筆資料並刷入硬碟
func (w *WAL) Write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.file.Write(data); err != nil {
		return err
	}
	return w.file.Sync()
}

// Sync 強制刷入硬碟
func (w *WAL) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Sync()
}

// Close 關閉檔案
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// ReadAll 讀取所有資料
// callback 是一個函式，接收一筆 JSON 原始資料
// 這樣可以避免一次將所有資料載入記憶體
//
// 最後一筆若只寫了一半 (寫入途中當機) 會被忽略。
func (w *WAL) ReadAll(callback func(jsonRaw []byte) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// 確保從頭讀取，O_APPEND 下之後的寫入仍會寫到檔尾
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	decoder := json.NewDecoder(w.file)
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return err
		}
		if err := callback(raw); err != nil {
			return err
		}
	}
}
