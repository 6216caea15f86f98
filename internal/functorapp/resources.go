package functorapp

import (
	"log"

	"fyne.io/fyne/v2"

	"github.com/edward-ap/functor/images"
)

// AppIcon is the application and window icon. It stays nil when the logo
// cannot be encoded.
var AppIcon fyne.Resource

func init() {
	data, err := images.LogoPNG(128)
	if err != nil {
		log.Println("icon render error:", err)
		return
	}
	AppIcon = fyne.NewStaticResource("functor.png", data)
}
