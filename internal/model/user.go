package model

// Credentials is the login form body.
type Credentials struct {
	Account  string `json:"taiKhoan" validate:"required,min=3,max=50"`
	Password string `json:"matKhau" validate:"required,min=3,max=100"`
}

// Profile mirrors the account fields the remote API exposes and accepts.
// The same struct is used for registration and profile updates, so the
// validation tags describe what the remote API will accept.
type Profile struct {
	Account  string `json:"taiKhoan" validate:"required,min=3,max=50"`
	Password string `json:"matKhau,omitempty" validate:"omitempty,min=6,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"soDt" validate:"omitempty,numeric,min=9,max=11"`
	Group    string `json:"maNhom,omitempty"`
	UserType string `json:"maLoaiNguoiDung,omitempty" validate:"omitempty,oneof=KhachHang QuanTri"`
	FullName string `json:"hoTen" validate:"required,max=100"`
}

// AuthUser is what a successful login returns: the account and the remote
// access token used for every authenticated call.
type AuthUser struct {
	Account     string `json:"account"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Group       string `json:"group,omitempty"`
	UserType    string `json:"user_type,omitempty"`
	AccessToken string `json:"-"`
}

// Account is a profile fetched from the remote API together with the
// booking history the server keeps for it.
type Account struct {
	Profile  Profile   `json:"profile"`
	Bookings []Receipt `json:"bookings"`
}
