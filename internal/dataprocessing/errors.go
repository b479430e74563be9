package dataprocessing

import "errors"

// Parse errors. The messages are shown to the user as-is.
var (
	ErrEmptyInput      = errors.New("CSVにデータがありません。")
	ErrMalformedHeader = errors.New("CSVの列が不足しています。")
	ErrNoNumericData   = errors.New("グラフ化可能な数値データが見つかりませんでした。")
	ErrUnreadableInput = errors.New("ファイルを読み込めませんでした。")
)
