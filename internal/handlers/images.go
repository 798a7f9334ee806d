package handlers

// Candidate sources per image, in try order. Placeholders are appended by imagechain.
var (
	heroImages = []string{
		"https://images.unsplash.com/photo-1518791841217-8f162f1e1131?q=80&w=1600&auto=format&fit=crop",
		"https://images.pexels.com/photos/1170986/pexels-photo-1170986.jpeg",
		"https://images.pexels.com/photos/2071873/pexels-photo-2071873.jpeg",
	}
	whyImages = []string{
		"https://images.unsplash.com/photo-1516366434321-728a48e6b7b3?q=80&w=1600&auto=format&fit=crop",
		"https://images.pexels.com/photos/1108099/pexels-photo-1108099.jpeg",
		"https://images.pexels.com/photos/573186/pexels-photo-573186.jpeg",
	}
	quoteImages = []string{
		"https://images.unsplash.com/photo-1555685812-4b943f1cb0eb?q=80&w=1600&auto=format&fit=crop",
	}

	heroSoft  = []string{"https://images.unsplash.com/photo-1543466835-00a7907e9de1?q=80&w=1200&auto=format&fit=crop", "https://images.unsplash.com/photo-1518791841217-8f162f1e1131?q=80&w=1200&auto=format&fit=crop"}
	plansSoft = []string{"https://images.unsplash.com/photo-1507149833265-60c372daea22?q=80&w=1200&auto=format&fit=crop", "https://images.unsplash.com/photo-1494256997604-768d1f608cac?q=80&w=1200&auto=format&fit=crop"}
	whySoft   = []string{"https://images.unsplash.com/photo-1592194996308-7b43878e84a3?q=80&w=1200&auto=format&fit=crop", "https://images.unsplash.com/photo-1505628346881-b72b27e84530?q=80&w=1200&auto=format&fit=crop"}
	aboutSoft = []string{"https://images.unsplash.com/photo-1507149833265-60c372daea22?q=80&w=1200&auto=format&fit=crop", "https://images.unsplash.com/photo-1517423440428-a5a00ad493e8?q=80&w=1200&auto=format&fit=crop"}
)
