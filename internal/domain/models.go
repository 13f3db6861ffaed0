package domain

// Domain contains the upstream resource shapes the client builds locally.
// Responses are otherwise handled as raw JSON text.

// Address is the nested postal address of a user.
type Address struct {
	Street  string `json:"street" yaml:"street"`
	Suite   string `json:"suite" yaml:"suite"`
	City    string `json:"city" yaml:"city"`
	Zipcode string `json:"zipcode" yaml:"zipcode"`
}

// User is a JSONPlaceholder user. ID is assigned by the remote service.
type User struct {
	ID       int      `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string   `json:"name" yaml:"name"`
	Username string   `json:"username" yaml:"username"`
	Email    string   `json:"email" yaml:"email"`
	Address  *Address `json:"address,omitempty" yaml:"address,omitempty"`
	Phone    string   `json:"phone,omitempty" yaml:"phone,omitempty"`
	Website  string   `json:"website,omitempty" yaml:"website,omitempty"`
}

// SampleUser is the user created on every run unless overridden.
func SampleUser() User {
	return User{
		Name:     "John Doe",
		Username: "johndoe",
		Email:    "johndoe@example.com",
		Address: &Address{
			Street:  "Kulas Light",
			Suite:   "Apt. 556",
			City:    "Gwenborough",
			Zipcode: "92998-3874",
		},
		Phone:   "1-770-736-8031 x56442",
		Website: "hildegard.org",
	}
}
