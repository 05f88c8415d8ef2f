package contact_test

import (
	"fmt"

	"github.com/vortex-fintech/go-contact/contact"
)

func ExampleExtract() {
	rec := contact.Extract(`Jane Roe
Senior Data Engineer at Acme
jane.roe@acme.io | (555) 010-9999
www.LinkedIn.com/in/Jane-Roe`)

	fmt.Println(rec.Email)
	fmt.Println(rec.Phone)
	fmt.Println(rec.JobTitle)
	fmt.Println(rec.Website)
	fmt.Printf("%q\n", rec.Name)
	// Output:
	// jane.roe@acme.io
	// (555)0109999
	// Data Engineer
	// https://linkedin.com/in/jane-roe
	// ""
}
