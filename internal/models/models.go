package models

// Access levels as defined by the API. Role checks are strict equality;
// combining levels (e.g. "admin or manager may edit") happens at call sites.
const (
	LevelUser    = 1
	LevelManager = 2
	LevelAdmin   = 3
)

// User is a staff account profile as served by the API.
type User struct {
	ID          int64  `json:"idUsuario"`
	Name        string `json:"nome"`
	Login       string `json:"login"`
	AccessLevel int    `json:"nivelAcesso"`
}

// Sale is one daily sales record. The monetary totals arrive as decimal
// strings and Weekday/DayTotal are computed server-side; the client never
// recomputes them.
type Sale struct {
	ID         int64  `json:"idVenda"`
	Date       string `json:"data"`
	Month      int    `json:"mes"`
	Year       int    `json:"ano"`
	Weekday    string `json:"diaSemana"`
	CardTotal  string `json:"totalCartao"`
	PixTotal   string `json:"totalPix"`
	CashTotal  string `json:"totalEspecie"`
	OtherTotal string `json:"totalOutro"`
	DayTotal   string `json:"totalDia"`
}

// LogEntry is one audit log record.
type LogEntry struct {
	ID        int64  `json:"idLog"`
	UserID    int64  `json:"idUsuario"`
	UserName  string `json:"nomeUsuario"`
	Action    string `json:"acao"`
	Timestamp string `json:"dataHora"`
}

// Pagination describes which slice of a collection a page holds.
// Page is 1-indexed.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Credentials is the login request payload.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"senha"`
}

// RegisterData is the account registration payload.
type RegisterData struct {
	Name     string `json:"nome"`
	Login    string `json:"login"`
	Password string `json:"senha"`
}

// PasswordChange is the change-password payload.
type PasswordChange struct {
	Current string `json:"senhaAtual"`
	New     string `json:"novaSenha"`
}

// LoginResult is the data object of a successful login response.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SaleInput carries the writable fields of a sale. Absent fields are
// omitted from the request so the server keeps their current values.
type SaleInput struct {
	Date       string   `json:"data,omitempty"`
	CardTotal  *float64 `json:"totalCartao,omitempty"`
	PixTotal   *float64 `json:"totalPix,omitempty"`
	CashTotal  *float64 `json:"totalEspecie,omitempty"`
	OtherTotal *float64 `json:"totalOutro,omitempty"`
}

// UserInput carries the writable fields of a user account.
type UserInput struct {
	Name        string `json:"nome,omitempty"`
	Login       string `json:"login,omitempty"`
	Password    string `json:"senha,omitempty"`
	AccessLevel int    `json:"nivelAcesso,omitempty"`
}
