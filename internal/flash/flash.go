// Package flash はサーバー側で積まれ、次の画面描画で一度だけ表示される
// フラッシュメッセージを提供する。メッセージはCookieに載せて次のリクエストへ
// 引き継ぎ、読み出し時にCookieを破棄する。
package flash

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
)

// cookieName はフラッシュメッセージを保持するCookieの名前。
const cookieName = "flash_messages"

// Level はフラッシュメッセージの種別を表す。画面上の配色に対応する。
type Level string

const (
	// LevelSuccess は操作成功の通知。
	LevelSuccess Level = "success"
	// LevelInfo は補足的な通知。
	LevelInfo Level = "info"
	// LevelWarning は注意喚起の通知。
	LevelWarning Level = "warning"
	// LevelError はエラーの通知。
	LevelError Level = "error"
)

// Message は1件のフラッシュメッセージを表す。
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// CookieConfig はフラッシュCookieの属性設定。
type CookieConfig struct {
	Secure bool
	Domain string
}

// Queue はリダイレクト先へ引き継ぐフラッシュメッセージの待ち行列。
type Queue struct {
	config   CookieConfig
	messages []Message
}

// NewQueue は空のQueueを生成する。
func NewQueue(config CookieConfig) *Queue {
	return &Queue{config: config}
}

// Add はメッセージを待ち行列に追加する。
func (q *Queue) Add(level Level, text string) {
	q.messages = append(q.messages, Message{Level: level, Text: text})
}

// Save は待ち行列の内容をCookieに書き込む。
// メッセージが空の場合は何もしない。リダイレクトレスポンスを書く前に呼ぶこと。
func (q *Queue) Save(w http.ResponseWriter) {
	if len(q.messages) == 0 {
		return
	}

	encoded, err := encode(q.messages)
	if err != nil {
		slog.Error("failed to encode flash messages", slog.String("error", err.Error()))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encoded,
		Path:     "/",
		Domain:   q.config.Domain,
		HttpOnly: true,
		Secure:   q.config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop はリクエストに載ってきたフラッシュメッセージを取り出し、Cookieを破棄する。
// メッセージがない場合はnilを返す。同じレスポンスで画面を描画する場合のみ呼ぶこと。
func Pop(w http.ResponseWriter, r *http.Request, config CookieConfig) []Message {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	// 読み出したら必ずCookieを消す（壊れた値も再配送しない）
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		Domain:   config.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	messages, err := decode(cookie.Value)
	if err != nil {
		slog.Warn("failed to decode flash cookie", slog.String("error", err.Error()))
		return nil
	}
	return messages
}

// encode はメッセージ列をCookieに載せられる文字列へ変換する。
func encode(messages []Message) (string, error) {
	data, err := json.Marshal(messages)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// decode はCookie値からメッセージ列を復元する。
func decode(value string) ([]Message, error) {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, err
	}
	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
