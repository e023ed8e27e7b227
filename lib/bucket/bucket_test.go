// Copyright (C) 2023 The Marquee Authors.
//
// This file is part of Marquee.
//
// Marquee is free software: you can redistribute it and/or modify it under the
// terms of the GNU Affero General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.
//
// Marquee is distributed in the hope that it will be useful, but WITHOUT ANY
// WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
// FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License for
// more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with Marquee.  If not, see <https://www.gnu.org/licenses/>.

package bucket

import (
	"testing"

	"github.com/defsub/marquee/config"
)

func TestRewrite(t *testing.T) {
	rules := []config.RewriteRule{
		// normalize poster keys uploaded with spaces
		{Pattern: "^posters/(.+) (.+)$", Replace: "posters/$1_$2"},
	}

	b := Bucket{config: &config.BucketConfig{RewriteRules: rules}}

	result := b.Rewrite("posters/the thing.jpg")
	if result != "posters/the_thing.jpg" {
		t.Errorf("got %s", result)
	}

	unchanged := b.Rewrite("posters/alien.jpg")
	if unchanged != "posters/alien.jpg" {
		t.Errorf("got %s", unchanged)
	}
}

func TestRewriteStacking(t *testing.T) {
	rules := []config.RewriteRule{
		{Pattern: "^(.+/)one(/.+)$", Replace: "$1two$2"},
		{Pattern: "^(.+/)two(/.+)$", Replace: "$1three$2"},
	}

	b := Bucket{config: &config.BucketConfig{RewriteRules: rules}}

	result := b.Rewrite("images/one/poster.jpg")
	if result != "images/three/poster.jpg" {
		t.Errorf("got %s", result)
	}
}
